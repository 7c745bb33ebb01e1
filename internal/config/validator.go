package config

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strings"
)

// MinDelayMs is the smallest pause between oracle lookups the oracle's rate
// limits tolerate.
const MinDelayMs = 1500

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "tasks.max_per_run")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateOracle()...)
	errors = append(errors, c.validateSite()...)
	errors = append(errors, c.validateKeywords()...)
	errors = append(errors, c.validateTasks()...)
	errors = append(errors, c.validateDispatch()...)
	errors = append(errors, c.validateScripts()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func validateAbsoluteURL(field, raw string) []ValidationError {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return []ValidationError{{
			Field:   field,
			Value:   raw,
			Message: "must be an absolute URL with scheme and host",
		}}
	}
	return nil
}

// validateOracle validates the OracleConfig
func (c *Config) validateOracle() []ValidationError {
	errors := validateAbsoluteURL("oracle.base_url", c.Oracle.BaseURL)

	if !strings.HasPrefix(c.Oracle.RankingPath, "/") {
		errors = append(errors, ValidationError{
			Field:   "oracle.ranking_path",
			Value:   c.Oracle.RankingPath,
			Message: "must start with /",
		})
	}
	if c.Oracle.RequestTimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "oracle.request_timeout_seconds",
			Value:   c.Oracle.RequestTimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Oracle.HealthTimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "oracle.health_timeout_seconds",
			Value:   c.Oracle.HealthTimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Oracle.DelayMs < MinDelayMs {
		errors = append(errors, ValidationError{
			Field:   "oracle.delay_ms",
			Value:   c.Oracle.DelayMs,
			Message: fmt.Sprintf("must be at least %dms to respect oracle rate limits", MinDelayMs),
		})
	}
	if c.Oracle.Window < 1 {
		errors = append(errors, ValidationError{
			Field:   "oracle.window",
			Value:   c.Oracle.Window,
			Message: "must be at least 1",
		})
	}

	return errors
}

// validateSite validates the SiteConfig
func (c *Config) validateSite() []ValidationError {
	return validateAbsoluteURL("site.base_url", c.Site.BaseURL)
}

// validateKeywords checks keywords and competitor columns
func (c *Config) validateKeywords() []ValidationError {
	var errors []ValidationError

	for i, kw := range c.Keywords {
		if strings.TrimSpace(kw) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("keywords[%d]", i),
				Value:   kw,
				Message: "must not be empty",
			})
		}
	}

	reserved := []string{"keyword", "position", "url"}
	seen := make(map[string]bool)
	for i, comp := range c.Competitors {
		field := fmt.Sprintf("competitors[%d]", i)
		if comp.Domain == "" {
			errors = append(errors, ValidationError{Field: field + ".domain", Value: comp.Domain, Message: "must not be empty"})
		}
		switch {
		case comp.Column == "":
			errors = append(errors, ValidationError{Field: field + ".column", Value: comp.Column, Message: "must not be empty"})
		case slices.Contains(reserved, comp.Column) || seen[comp.Column]:
			errors = append(errors, ValidationError{Field: field + ".column", Value: comp.Column, Message: "must be unique and not a reserved column"})
		}
		seen[comp.Column] = true
	}

	return errors
}

// validateTasks validates the TasksConfig
func (c *Config) validateTasks() []ValidationError {
	var errors []ValidationError

	if c.Tasks.Source == "" {
		errors = append(errors, ValidationError{
			Field:   "tasks.source",
			Value:   c.Tasks.Source,
			Message: "must not be empty",
		})
	}
	if c.Tasks.MaxPerRun < 0 {
		errors = append(errors, ValidationError{
			Field:   "tasks.max_per_run",
			Value:   c.Tasks.MaxPerRun,
			Message: "must be non-negative",
		})
	}
	if math.IsNaN(c.Tasks.PriorityThreshold) || math.IsInf(c.Tasks.PriorityThreshold, 0) {
		errors = append(errors, ValidationError{
			Field:   "tasks.priority_threshold",
			Value:   c.Tasks.PriorityThreshold,
			Message: "must be a finite number",
		})
	}

	return errors
}

// validateDispatch validates the DispatchConfig
func (c *Config) validateDispatch() []ValidationError {
	var errors []ValidationError

	const maxTimeoutSeconds = 600
	if c.Dispatch.TimeoutSeconds <= 0 || c.Dispatch.TimeoutSeconds > maxTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "dispatch.timeout_seconds",
			Value:   c.Dispatch.TimeoutSeconds,
			Message: fmt.Sprintf("must be between 1 and %d", maxTimeoutSeconds),
		})
	}

	return errors
}

// validateScripts validates the ScriptsConfig
func (c *Config) validateScripts() []ValidationError {
	var errors []ValidationError

	fields := []struct {
		name  string
		value string
	}{
		{"scripts.node", c.Scripts.Node},
		{"scripts.create_landing", c.Scripts.CreateLanding},
		{"scripts.optimize_landing", c.Scripts.OptimizeLanding},
		{"scripts.fix_tech_issues", c.Scripts.FixTechIssues},
	}
	for _, f := range fields {
		if f.value == "" {
			errors = append(errors, ValidationError{Field: f.name, Value: f.value, Message: "must not be empty"})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
