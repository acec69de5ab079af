// Package config defines the application configuration and its viper
// loading. The analysis section is the configuration surface the check
// engine consumes; everything else is ambient (logging, scan fan-out,
// reporting).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the root configuration object.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Scan     ScanConfig     `mapstructure:"scan" yaml:"scan"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// File output with rotation; empty disables the file core.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// CheckToggles enables or disables individual checks.
type CheckToggles struct {
	CommandInjection bool `mapstructure:"command_injection" yaml:"command_injection"`
	CodeInjection    bool `mapstructure:"code_injection" yaml:"code_injection"`
	Redos            bool `mapstructure:"redos" yaml:"redos"`
	XSS              bool `mapstructure:"xss" yaml:"xss"`
	OpenRedirect     bool `mapstructure:"open_redirect" yaml:"open_redirect"`
	InsecureCookie   bool `mapstructure:"insecure_cookie" yaml:"insecure_cookie"`
	MissingHeaders   bool `mapstructure:"missing_headers" yaml:"missing_headers"`
}

// AnalysisConfig is the configuration surface consumed by the check engine.
type AnalysisConfig struct {
	Checks CheckToggles `mapstructure:"checks" yaml:"checks"`

	// AllowLiteralArguments / AllowLiteralArrayArguments exempt calls whose
	// every argument is a literal (or literal array) from reporting.
	AllowLiteralArguments      bool `mapstructure:"allow_literal_arguments" yaml:"allow_literal_arguments"`
	AllowLiteralArrayArguments bool `mapstructure:"allow_literal_array_arguments" yaml:"allow_literal_array_arguments"`

	// ExtraSinks adds sink method names to the command-injection catalog;
	// ExtraEvalNames adds eval-like function names to the code-injection
	// catalog.
	ExtraSinks     []string `mapstructure:"extra_sinks" yaml:"extra_sinks"`
	ExtraEvalNames []string `mapstructure:"extra_eval_names" yaml:"extra_eval_names"`

	// RemediationStrategy selects the advisory-fix flavor:
	// remove, refactor, validate or auto.
	RemediationStrategy string `mapstructure:"remediation_strategy" yaml:"remediation_strategy"`

	// TrustedLibraries are sanitizer library name fragments.
	TrustedLibraries []string `mapstructure:"trusted_libraries" yaml:"trusted_libraries"`

	// MaxPatternLength bounds tolerated literal regex pattern length for the
	// ReDoS check; 0 disables the bound.
	MaxPatternLength int `mapstructure:"max_pattern_length" yaml:"max_pattern_length"`

	// RequiredHeaders is the header set the missing-headers check audits.
	RequiredHeaders []string `mapstructure:"required_headers" yaml:"required_headers"`

	// IgnorePatterns suppress matching source text (regex, or substring
	// when the regex does not compile).
	IgnorePatterns []string `mapstructure:"ignore_patterns" yaml:"ignore_patterns"`

	// LookBack is the preceding-statement window for sanitizer search.
	LookBack int `mapstructure:"look_back" yaml:"look_back"`
}

// ScanConfig controls the file walker.
type ScanConfig struct {
	Concurrency int      `mapstructure:"concurrency" yaml:"concurrency"`
	Extensions  []string `mapstructure:"extensions" yaml:"extensions"`
	IgnoreFile  string   `mapstructure:"ignore_file" yaml:"ignore_file"`
}

// ReportConfig controls output rendering.
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // text, json, sarif
	Output string `mapstructure:"output" yaml:"output"` // path or "stdout"
}

// SetDefaults initializes default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "sinkhound")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	v.SetDefault("analysis.checks.command_injection", true)
	v.SetDefault("analysis.checks.code_injection", true)
	v.SetDefault("analysis.checks.redos", true)
	v.SetDefault("analysis.checks.xss", true)
	v.SetDefault("analysis.checks.open_redirect", true)
	v.SetDefault("analysis.checks.insecure_cookie", true)
	v.SetDefault("analysis.checks.missing_headers", true)

	v.SetDefault("analysis.allow_literal_arguments", true)
	v.SetDefault("analysis.allow_literal_array_arguments", true)
	v.SetDefault("analysis.remediation_strategy", "auto")
	v.SetDefault("analysis.trusted_libraries", []string{
		"dompurify", "sanitize-html", "xss", "validator", "escape-html",
	})
	v.SetDefault("analysis.max_pattern_length", 64)
	v.SetDefault("analysis.required_headers", []string{
		"Content-Security-Policy",
		"X-Frame-Options",
		"X-Content-Type-Options",
		"Strict-Transport-Security",
	})
	v.SetDefault("analysis.look_back", 5)

	v.SetDefault("scan.concurrency", 8)
	v.SetDefault("scan.extensions", []string{".js", ".mjs", ".cjs", ".jsx"})
	v.SetDefault("scan.ignore_file", ".sinkhoundignore")

	v.SetDefault("report.format", "text")
	v.SetDefault("report.output", "stdout")
}

// NewDefaultConfig returns a config populated with defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper unmarshals and validates a configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks for sane values.
func (c *Config) Validate() error {
	if c.Scan.Concurrency <= 0 {
		return fmt.Errorf("scan.concurrency must be a positive integer")
	}
	if c.Analysis.LookBack < 0 {
		return fmt.Errorf("analysis.look_back must not be negative")
	}
	switch c.Analysis.RemediationStrategy {
	case "", "remove", "refactor", "validate", "auto":
	default:
		return fmt.Errorf("analysis.remediation_strategy %q is not one of remove, refactor, validate, auto", c.Analysis.RemediationStrategy)
	}
	switch c.Report.Format {
	case "", "text", "json", "sarif":
	default:
		return fmt.Errorf("report.format %q is not one of text, json, sarif", c.Report.Format)
	}
	return nil
}
