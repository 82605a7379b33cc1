package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// FieldError is one configuration problem.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// ValidationError carries every problem found while loading.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d error(s):", len(e.Fields))
	for i, f := range e.Fields {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, f.Error())
	}
	return sb.String()
}

// Validator accumulates problems so that startup can report all of them
// at once.
type Validator struct {
	errors []FieldError
}

// AddError records a problem with field.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors returns true if any problem was recorded.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Err returns the accumulated problems, or nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return &ValidationError{Fields: append([]FieldError(nil), v.errors...)}
}

// Required records an error when value is empty.
func (v *Validator) Required(key, value string) {
	if value == "" {
		v.AddError(key, "required environment variable not set")
	}
}

// Addr validates a listen address such as ":8000" or "0.0.0.0:8000".
func (v *Validator) Addr(key, value string) {
	if value == "" {
		return
	}
	_, portStr, err := net.SplitHostPort(value)
	if err != nil {
		v.AddError(key, "must be host:port or :port")
		return
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		v.AddError(key, "port must be a number")
		return
	}
	if port < 1 || port > 65535 {
		v.AddError(key, "port must be between 1 and 65535")
	}
}

// Enum validates that value is one of allowed. Empty values pass.
func (v *Validator) Enum(key, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, opt := range allowed {
		if value == opt {
			return
		}
	}
	v.AddError(key, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

// PositiveInt parses value as a positive integer, returning def when value
// is empty and recording an error when it is malformed.
func (v *Validator) PositiveInt(key, value string, def int64) int64 {
	if value == "" {
		return def
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		v.AddError(key, "must be a valid integer")
		return def
	}
	if n <= 0 {
		v.AddError(key, "must be a positive integer")
		return def
	}
	return n
}

// PostgresDSN checks that value looks like a PostgreSQL connection URL.
func (v *Validator) PostgresDSN(key, value string) {
	if value == "" {
		return
	}
	if !strings.HasPrefix(value, "postgres://") && !strings.HasPrefix(value, "postgresql://") {
		v.AddError(key, "must be a valid PostgreSQL connection string")
	}
}
