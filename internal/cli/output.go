package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/contacts-cli/internal/config"
	apperrors "github.com/eugenenazirov/contacts-cli/internal/errors"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var formats = []string{formatTable, formatJSON, formatYAML}

func parseFormat(raw string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	if !slices.Contains(formats, format) {
		return "", apperrors.Newf(apperrors.SeverityMedium,
			"unsupported format %q: must be one of %s", raw, strings.Join(formats, ", "))
	}
	return format, nil
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

func writeConfigTable(w io.Writer, cfg config.Config) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE")
	fmt.Fprintln(tw, "---\t-----")
	fmt.Fprintf(tw, "environment\t%s\n", cfg.Environment)
	fmt.Fprintf(tw, "logLevel\t%s\n", cfg.LogLevel)
	fmt.Fprintf(tw, "port\t%d\n", cfg.Port)
	if db := cfg.Database; db != nil {
		fmt.Fprintf(tw, "database.host\t%s\n", db.Host)
		fmt.Fprintf(tw, "database.port\t%d\n", db.Port)
		fmt.Fprintf(tw, "database.database\t%s\n", db.Name)
		fmt.Fprintf(tw, "database.username\t%s\n", db.Username)
		fmt.Fprintf(tw, "database.password\t%s\n", db.Password)
		fmt.Fprintf(tw, "database.ssl\t%t\n", db.SSL)
	} else {
		fmt.Fprintln(tw, "database\t(not configured)")
	}
	fmt.Fprintf(tw, "features.enableMetrics\t%t\n", cfg.Features.EnableMetrics)
	fmt.Fprintf(tw, "features.enableCaching\t%t\n", cfg.Features.EnableCaching)
	fmt.Fprintf(tw, "features.enableDebugMode\t%t\n", cfg.Features.EnableDebugMode)
	return tw.Flush()
}

func writeReportTable(w io.Writer, report config.Report) error {
	if report.Valid {
		_, err := fmt.Fprintln(w, "Configuration is valid")
		return err
	}
	fmt.Fprintln(w, "Configuration is invalid:")
	for _, msg := range report.Errors {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
	return nil
}

// describeValue renders a diff value on one line.
func describeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "none"
	case *config.Database:
		if val == nil {
			return "none"
		}
		return fmt.Sprintf("%s@%s:%d/%s", val.Username, val.Host, val.Port, val.Name)
	case config.Features:
		return fmt.Sprintf("metrics=%t caching=%t debug=%t",
			val.EnableMetrics, val.EnableCaching, val.EnableDebugMode)
	default:
		return fmt.Sprint(val)
	}
}
