package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the given environment
func ValidateConfig(cfg *Config, env Environment) error {
	var errs ValidationErrors

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBDSN == "" && cfg.DBHost == "" {
			errs = append(errs, ValidationError{Field: "DB_HOST", Message: "required when DATABASE_URL is not set"})
		}
	case "sqlite":
		if env == Production {
			errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not supported in production"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.SessionSecret == "" {
		errs = append(errs, ValidationError{Field: "SESSION_KEY", Message: "required"})
	}

	if env == Production || env == CI {
		if cfg.CompletionAPIKey == "" {
			errs = append(errs, ValidationError{Field: "GPT_API_KEY", Message: "required"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
