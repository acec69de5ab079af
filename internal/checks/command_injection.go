package checks

import (
	"regexp"

	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/config"
	"github.com/kvasirsec/sinkhound/internal/engine"
)

// execLikeSignature marks calls that smell like process execution even when
// the exact name has no catalog entry (shellExec, runSystemCmd, ...).
var execLikeSignature = regexp.MustCompile(`(?i)\b\w*(exec|spawn|system)\w*\s*\(`)

// CommandInjection flags shell-execution sinks fed by dynamic values. Shell
// string APIs are intrinsically dangerous; argument-vector APIs are carried
// at the lower argument-injection class.
func CommandInjection(cfg config.AnalysisConfig) engine.Check {
	patterns := []catalog.SinkPattern{
		{
			Name: "child_process.exec", Match: "exec",
			Class: schemas.ClassCommandInjection, Dangerous: true,
			Alternatives: []string{"child_process.execFile", "child_process.spawn"},
			BadExample:   "exec(`git clone ${repoUrl}`)",
			GoodExample:  "execFile('git', ['clone', repoUrl])",
			Effort:       "30m", BaseTier: schemas.SeverityHigh,
		},
		{
			Name: "child_process.execSync", Match: "execSync",
			Class: schemas.ClassCommandInjection, Dangerous: true,
			Alternatives: []string{"child_process.execFileSync", "child_process.spawnSync"},
			BadExample:   "execSync('rm -rf ' + dir)",
			GoodExample:  "execFileSync('rm', ['-rf', dir])",
			Effort:       "30m", BaseTier: schemas.SeverityHigh,
		},
		{
			Name: "child_process.spawn", Match: "spawn",
			Class: schemas.ClassArgumentInjection,
			Alternatives: []string{"spawn with a fixed argument vector and {shell: false}"},
			BadExample:   "spawn(cmd, {shell: true})",
			GoodExample:  "spawn('git', ['clone', url])",
			Effort:       "20m", BaseTier: schemas.SeverityMedium,
		},
		{
			Name: "child_process.spawnSync", Match: "spawnSync",
			Class:  schemas.ClassArgumentInjection,
			Effort: "20m", BaseTier: schemas.SeverityMedium,
		},
		{
			Name: "child_process.execFile", Match: "execFile",
			Class:  schemas.ClassArgumentInjection,
			Effort: "20m", BaseTier: schemas.SeverityMedium,
		},
		{
			Name: "child_process.execFileSync", Match: "execFileSync",
			Class:  schemas.ClassArgumentInjection,
			Effort: "20m", BaseTier: schemas.SeverityMedium,
		},
	}
	for _, extra := range cfg.ExtraSinks {
		patterns = append(patterns, catalog.SinkPattern{
			Name: extra, Match: extra,
			Class: schemas.ClassCommandInjection, Dangerous: true,
			Effort: "30m", BaseTier: schemas.SeverityHigh,
		})
	}

	check := base(cfg, "command-injection")
	check.Class = schemas.ClassCommandInjection
	check.Catalog = catalog.New(patterns...)
	check.GenericSignatures = []*regexp.Regexp{execLikeSignature}
	return check
}
