package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/observability"
	"github.com/kvasirsec/sinkhound/internal/reporting"
	"github.com/kvasirsec/sinkhound/internal/scan"
)

// newScanCmd creates the `scan` command.
func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scans JavaScript files or directories for dangerous sinks",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to viper keys so the command line overrides the
			// config file and environment with the right precedence.
			if err := viper.BindPFlag("report.format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			if err := viper.BindPFlag("report.output", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			return viper.BindPFlag("scan.concurrency", cmd.Flags().Lookup("concurrency"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			findings, err := scan.NewScanner(logger, cfg).Run(ctx, args)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			reporter, err := reporting.New(cfg.Report.Format, cfg.Report.Output, Version, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize reporter: %w", err)
			}
			if err := reporter.Write(findings); err != nil {
				reporter.Close()
				return fmt.Errorf("failed to write report: %w", err)
			}
			if err := reporter.Close(); err != nil {
				return fmt.Errorf("failed to finalize report: %w", err)
			}

			if failOn := viper.GetString("fail_on"); failOn != "" {
				if shouldFail(findings, schemas.Severity(failOn)) {
					logger.Warn("findings at or above the failure threshold",
						zap.String("fail_on", failOn))
					os.Exit(2)
				}
			}
			return nil
		},
	}

	scanCmd.Flags().StringP("format", "f", "text", "report format: text, json or sarif")
	scanCmd.Flags().StringP("output", "o", "stdout", "report destination path, or 'stdout'")
	scanCmd.Flags().IntP("concurrency", "j", 0, "number of files analyzed in parallel (overrides config/env)")
	scanCmd.Flags().String("fail_on", "", "exit nonzero when a finding reaches this severity (low, medium, high, critical)")
	_ = viper.BindPFlag("fail_on", scanCmd.Flags().Lookup("fail_on"))

	return scanCmd
}

func shouldFail(findings []schemas.Finding, threshold schemas.Severity) bool {
	for _, f := range findings {
		if f.Severity == threshold || f.Severity.MoreSevere(threshold) {
			return true
		}
	}
	return false
}
