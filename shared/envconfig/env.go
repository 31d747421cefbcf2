package envconfig

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Get returns the value of the requested environment variable or the supplied fallback when empty.
func Get(name string, fallback string) string {
	if value, ok := os.LookupEnv(name); ok && value != "" {
		return value
	}
	return fallback
}

// GetList splits a comma separated variable, dropping blank items.
func GetList(name string, fallback []string) []string {
	raw := Get(name, "")
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

// GetDuration parses a time.Duration variable, returning the fallback when absent or invalid.
func GetDuration(name string, fallback time.Duration) time.Duration {
	raw := Get(name, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate validates a struct using validator tags.
func Validate(v any) error {
	return validate.Struct(v)
}
