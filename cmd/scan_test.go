package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasirsec/sinkhound/api/schemas"
)

func TestShouldFail(t *testing.T) {
	findings := []schemas.Finding{
		{Severity: schemas.SeverityMedium},
		{Severity: schemas.SeverityHigh},
	}

	assert.True(t, shouldFail(findings, schemas.SeverityHigh), "exact threshold hit")
	assert.True(t, shouldFail(findings, schemas.SeverityLow), "anything above the threshold trips it")
	assert.False(t, shouldFail(findings, schemas.SeverityCritical))
	assert.False(t, shouldFail(nil, schemas.SeverityLow))
}

func TestScanCommandFlags(t *testing.T) {
	t.Cleanup(viper.Reset)
	cmd := newScanCmd()

	format := cmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "stdout", output.DefValue)

	require.NotNil(t, cmd.Flags().Lookup("concurrency"))
	require.NotNil(t, cmd.Flags().Lookup("fail_on"))
}

func TestScanCommandBindsFlagsToViper(t *testing.T) {
	t.Cleanup(viper.Reset)
	cmd := newScanCmd()

	require.NoError(t, cmd.Flags().Set("format", "sarif"))
	require.NoError(t, cmd.Flags().Set("output", "report.sarif"))
	require.NoError(t, cmd.Flags().Set("concurrency", "3"))
	require.NoError(t, cmd.Flags().Set("fail_on", "high"))
	require.NoError(t, cmd.PreRunE(cmd, nil))

	assert.Equal(t, "sarif", viper.GetString("report.format"))
	assert.Equal(t, "report.sarif", viper.GetString("report.output"))
	assert.Equal(t, 3, viper.GetInt("scan.concurrency"))
	assert.Equal(t, "high", viper.GetString("fail_on"))
}

func TestRootRegistersScan(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "scan")
}
