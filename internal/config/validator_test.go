package config

import (
	"math"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "tasks.max_per_run",
		Value:   -1,
		Message: "must be non-negative",
	}

	expected := "tasks.max_per_run: must be non-negative (got: -1)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "a", Value: 1, Message: "bad"},
			{Field: "b", Value: 2, Message: "worse"},
		}
		got := errs.Error()
		if !strings.HasPrefix(got, "2 validation errors:") {
			t.Errorf("Error() = %q", got)
		}
		if !strings.Contains(got, "1. a: bad (got: 1)") || !strings.Contains(got, "2. b: worse (got: 2)") {
			t.Errorf("Error() = %q", got)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"relative oracle url", func(c *Config) { c.Oracle.BaseURL = "localhost:5000" }, "oracle.base_url"},
		{"ranking path without slash", func(c *Config) { c.Oracle.RankingPath = "api/serp" }, "oracle.ranking_path"},
		{"delay below rate limit", func(c *Config) { c.Oracle.DelayMs = 1000 }, "oracle.delay_ms"},
		{"zero health timeout", func(c *Config) { c.Oracle.HealthTimeoutSeconds = 0 }, "oracle.health_timeout_seconds"},
		{"zero window", func(c *Config) { c.Oracle.Window = 0 }, "oracle.window"},
		{"site url", func(c *Config) { c.Site.BaseURL = "" }, "site.base_url"},
		{"blank keyword", func(c *Config) { c.Keywords = []string{"ok", "  "} }, "keywords[1]"},
		{"reserved competitor column", func(c *Config) { c.Competitors[0].Column = "position" }, "competitors[0].column"},
		{"duplicate competitor column", func(c *Config) { c.Competitors[1].Column = c.Competitors[0].Column }, "competitors[1].column"},
		{"empty source", func(c *Config) { c.Tasks.Source = "" }, "tasks.source"},
		{"negative cap", func(c *Config) { c.Tasks.MaxPerRun = -1 }, "tasks.max_per_run"},
		{"nan threshold", func(c *Config) { c.Tasks.PriorityThreshold = math.NaN() }, "tasks.priority_threshold"},
		{"zero dispatch timeout", func(c *Config) { c.Dispatch.TimeoutSeconds = 0 }, "dispatch.timeout_seconds"},
		{"missing node", func(c *Config) { c.Scripts.Node = "" }, "scripts.node"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), ValidationErrors(errs))
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestValidate_ZeroCapAllowed(t *testing.T) {
	cfg := Default()
	cfg.Tasks.MaxPerRun = 0
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("MaxPerRun=0 should be valid, got %v", errs)
	}
}
