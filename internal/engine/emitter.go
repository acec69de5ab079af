package engine

import (
	"fmt"

	"github.com/google/uuid"
	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/astutil"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/analysis/taint"
)

// Emitter turns detected violations into Finding records and owns the
// per-traversal scope deduplication set. One emitter serves exactly one
// pass, so no synchronization is needed.
type Emitter struct {
	logger   *zap.Logger
	check    string
	strategy catalog.Strategy

	seenScopes map[string]struct{}
	findings   []schemas.Finding
}

func newEmitter(logger *zap.Logger, check string, strategy catalog.Strategy) *Emitter {
	if strategy == "" {
		strategy = catalog.StrategyAuto
	}
	return &Emitter{
		logger:     logger.Named("emit"),
		check:      check,
		strategy:   strategy,
		seenScopes: make(map[string]struct{}),
	}
}

// VisitScope records a scope identity and reports whether this is its first
// visit. Once a scope is marked there is no backtracking.
func (em *Emitter) VisitScope(key string) bool {
	if key == "" {
		return false
	}
	if _, seen := em.seenScopes[key]; seen {
		return false
	}
	em.seenScopes[key] = struct{}{}
	return true
}

// Emit produces one finding anchored at node. The message defaults to a
// class-derived description when empty.
func (em *Emitter) Emit(file string, source []byte, node *sitter.Node, pattern catalog.SinkPattern, severity schemas.Severity, verdict taint.Verdict, message string) {
	if message == "" {
		message = describe(pattern, verdict)
	}

	f := schemas.Finding{
		ID:          uuid.NewString(),
		Check:       em.check,
		Class:       pattern.Class,
		Severity:    severity,
		Message:     message,
		Location:    astutil.Location(file, node, source),
		Remediation: catalog.Remediation(pattern.Class),
		Fixes:       catalog.Fixes(pattern, em.strategy),
	}

	em.logger.Debug("finding emitted",
		zap.String("class", string(f.Class)),
		zap.String("severity", string(f.Severity)),
		zap.String("location", fmt.Sprintf("%s:%d", f.Location.File, f.Location.Line)))

	em.findings = append(em.findings, f)
}

// Findings returns the pass's findings in emission (source) order.
func (em *Emitter) Findings() []schemas.Finding {
	return em.findings
}

func describe(pattern catalog.SinkPattern, verdict taint.Verdict) string {
	switch {
	case verdict.Hot():
		return fmt.Sprintf("unsanitized dynamic value reaches %s", pattern.Name)
	case verdict.Dynamic:
		return fmt.Sprintf("dynamic value reaches %s", pattern.Name)
	default:
		return fmt.Sprintf("unsafe use of %s", pattern.Name)
	}
}
