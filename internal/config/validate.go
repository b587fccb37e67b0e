package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/eugenenazirov/contacts-cli/internal/errors"
)

// Report is the non-throwing validation result.
type Report struct {
	Valid  bool     `json:"valid" yaml:"valid"`
	Errors []string `json:"errors" yaml:"errors"`
}

// validate is safe for concurrent use once built.
var validate = validator.New()

// Check evaluates every rule and collects all violations. The database
// password is not checked here: a missing password blocks Load but is left
// out of the diagnostic report.
func Check(cfg Config) Report {
	msgs := violations(validate.StructExcept(cfg, "Database.Password"))
	return Report{
		Valid:  len(msgs) == 0,
		Errors: msgs,
	}
}

// Validate is the strict variant used when loading. Any violation fails with
// a HIGH error listing all of them.
func Validate(cfg Config) error {
	msgs := violations(validate.Struct(cfg))
	if len(msgs) == 0 {
		return nil
	}
	return apperrors.New(apperrors.SeverityHigh, "invalid configuration: "+strings.Join(msgs, "; "))
}

func violations(err error) []string {
	if err == nil {
		return []string{}
	}
	var fieldErrs validator.ValidationErrors
	if !apperrors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return msgs
}

func describe(fe validator.FieldError) string {
	switch fe.StructNamespace() {
	case "Config.Environment":
		return fmt.Sprintf("invalid environment %q: must be one of development, staging, production", fe.Value())
	case "Config.LogLevel":
		return fmt.Sprintf("invalid log level %q: must be one of debug, info, warn, error", fe.Value())
	case "Config.Port":
		return fmt.Sprintf("port %v out of range %d-%d", fe.Value(), minPort, maxPort)
	case "Config.Database.Host":
		return "database host is required"
	case "Config.Database.Name":
		return "database name is required"
	case "Config.Database.Username":
		return "database username is required"
	case "Config.Database.Password":
		return "database password is required"
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag())
	}
}
