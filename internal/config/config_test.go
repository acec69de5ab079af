package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "sinkhound", cfg.Logger.ServiceName)

	assert.True(t, cfg.Analysis.Checks.CommandInjection)
	assert.True(t, cfg.Analysis.Checks.MissingHeaders)
	assert.True(t, cfg.Analysis.AllowLiteralArguments)
	assert.Equal(t, "auto", cfg.Analysis.RemediationStrategy)
	assert.Contains(t, cfg.Analysis.TrustedLibraries, "dompurify")
	assert.Equal(t, 64, cfg.Analysis.MaxPatternLength)
	assert.Equal(t, 5, cfg.Analysis.LookBack)
	assert.Contains(t, cfg.Analysis.RequiredHeaders, "Content-Security-Policy")

	assert.Equal(t, 8, cfg.Scan.Concurrency)
	assert.Contains(t, cfg.Scan.Extensions, ".jsx")
	assert.Equal(t, ".sinkhoundignore", cfg.Scan.IgnoreFile)

	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, "stdout", cfg.Report.Output)

	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("analysis.look_back", 3)
	v.Set("report.format", "sarif")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Analysis.LookBack)
	assert.Equal(t, "sarif", cfg.Report.Format)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero concurrency", func(c *Config) { c.Scan.Concurrency = 0 }, "scan.concurrency"},
		{"negative look back", func(c *Config) { c.Analysis.LookBack = -1 }, "look_back"},
		{"bad strategy", func(c *Config) { c.Analysis.RemediationStrategy = "rewrite" }, "remediation_strategy"},
		{"bad format", func(c *Config) { c.Report.Format = "xml" }, "report.format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
