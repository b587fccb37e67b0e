package service

import (
	"github.com/eugenenazirov/contacts-cli/internal/config"
	apperrors "github.com/eugenenazirov/contacts-cli/internal/errors"
)

// Key names a top-level configuration field.
type Key string

const (
	KeyEnvironment Key = "environment"
	KeyLogLevel    Key = "logLevel"
	KeyPort        Key = "port"
	KeyDatabase    Key = "database"
	KeyFeatures    Key = "features"
)

// Keys lists every top-level key in declaration order.
var Keys = []Key{KeyEnvironment, KeyLogLevel, KeyPort, KeyDatabase, KeyFeatures}

// Feature names a toggle in the features block.
type Feature string

const (
	FeatureMetrics   Feature = "enableMetrics"
	FeatureCaching   Feature = "enableCaching"
	FeatureDebugMode Feature = "enableDebugMode"
)

// Get returns the value stored under key. The dynamic types are
// config.Environment, config.LogLevel, int, *config.Database and
// config.Features.
func (s *Service) Get(key Key) (any, error) {
	cfg, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	v, ok := fields(cfg)[key]
	if !ok {
		return nil, apperrors.Newf(apperrors.SeverityMedium, "unknown configuration key %q", key)
	}
	return v, nil
}

// Value is the typed form of Get.
func Value[T any](s *Service, key Key) (T, error) {
	var zero T
	v, err := s.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, apperrors.Newf(apperrors.SeverityMedium, "configuration key %q holds %T, not %T", key, v, zero)
	}
	return typed, nil
}

// IsFeatureEnabled reports a feature toggle. Unknown flags and an
// uninitialized service report false.
func (s *Service) IsFeatureEnabled(flag Feature) bool {
	cfg, err := s.Snapshot()
	if err != nil {
		return false
	}
	switch flag {
	case FeatureMetrics:
		return cfg.Features.EnableMetrics
	case FeatureCaching:
		return cfg.Features.EnableCaching
	case FeatureDebugMode:
		return cfg.Features.EnableDebugMode
	default:
		return false
	}
}

// EnvironmentValue picks the value matching the current environment.
func EnvironmentValue[T any](s *Service, dev, staging, prod T) (T, error) {
	cfg, err := s.Snapshot()
	if err != nil {
		var zero T
		return zero, err
	}
	return config.Select(cfg.Environment, dev, staging, prod), nil
}

func fields(cfg config.Config) map[Key]any {
	return map[Key]any{
		KeyEnvironment: cfg.Environment,
		KeyLogLevel:    cfg.LogLevel,
		KeyPort:        cfg.Port,
		KeyDatabase:    cfg.Database,
		KeyFeatures:    cfg.Features,
	}
}
