// Package engine is the generic single-pass check engine. Every concrete
// check is one Check value: a sink catalog plus a small set of hooks. The
// engine owns traversal, taint resolution, risk grading and emission; checks
// contribute only configuration.
package engine

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/kvasirsec/sinkhound/api/schemas"
	"github.com/kvasirsec/sinkhound/internal/analysis/astutil"
	"github.com/kvasirsec/sinkhound/internal/analysis/catalog"
	"github.com/kvasirsec/sinkhound/internal/analysis/risk"
	"github.com/kvasirsec/sinkhound/internal/analysis/scope"
	"github.com/kvasirsec/sinkhound/internal/analysis/taint"
)

// LiteralInspector lets a check flag structurally-literal arguments that are
// still reportable (nested-quantifier regexes, oversized patterns). It
// returns a message and true when a MEDIUM finding should be emitted.
type LiteralInspector func(pattern catalog.SinkPattern, args []*sitter.Node, source []byte) (string, bool)

// ScopeAudit configures scope-granular checks (the security-headers check):
// at most one finding per lexical scope, produced by auditing every matching
// call in the scope body at once.
type ScopeAudit struct {
	// MethodNames are the call names that trigger an audit of the enclosing
	// scope (setHeader, writeHead, ...).
	MethodNames map[string]bool
	// RequiredHeaders is the set of headers every scope must set.
	RequiredHeaders []string
}

// Check is one complete check configuration.
type Check struct {
	Name  string
	Class schemas.VulnerabilityClass

	Catalog *catalog.Catalog
	Taint   taint.Config

	// AllowLiteralArguments / AllowLiteralArrayArguments suppress findings
	// for calls whose every argument is a literal (or literal array).
	AllowLiteralArguments      bool
	AllowLiteralArrayArguments bool

	Strategy catalog.Strategy

	// GenericSignatures are rendered-source regexes that mark a call as
	// sink-like even without a catalog entry; such calls fall back to a
	// synthesized generic descriptor so unresolved taint still reports.
	GenericSignatures []*regexp.Regexp

	// IgnoreTexts suppress any node whose rendered source matches (literal
	// or regex; invalid regexes degrade to substring matching).
	IgnoreTexts []string

	Literal LiteralInspector
	Audit   *ScopeAudit
}

// Engine runs one check over one file's tree. It is stateless between files:
// construct per (check, file) pair.
type Engine struct {
	check    Check
	logger   *zap.Logger
	emitter  *Emitter
	resolver *taint.Resolver
	ignores  []textMatcher
	file     string
	source   []byte
}

// New builds an engine for a single traversal pass.
func New(check Check, logger *zap.Logger) *Engine {
	l := logger.Named(check.Name)
	return &Engine{
		check:   check,
		logger:  l,
		ignores: compileIgnores(check.IgnoreTexts, l),
	}
}

// Run performs the single depth-first pass and returns the findings in
// source order. Running twice over an unmodified tree yields an identical
// sequence (modulo the generated IDs).
func (e *Engine) Run(file string, source []byte, root *sitter.Node) []schemas.Finding {
	if root == nil {
		return nil
	}
	e.file = file
	e.source = source
	e.resolver = taint.NewResolver(e.logger, source, e.check.Taint)
	e.emitter = newEmitter(e.logger, e.check.Name, e.check.Strategy)

	e.walk(root)
	return e.emitter.Findings()
}

func (e *Engine) walk(node *sitter.Node) {
	if node == nil || node.IsNull() {
		return
	}

	switch node.Type() {
	case "call_expression", "new_expression":
		e.visitCall(node)
	case "assignment_expression", "augmented_assignment_expression":
		e.visitAssignment(node)
	}

	cursor := sitter.NewTreeCursor(node)
	defer cursor.Close()
	if ok := cursor.GoToFirstChild(); ok {
		for {
			e.walk(cursor.CurrentNode())
			if ok := cursor.GoToNextSibling(); !ok {
				break
			}
		}
	}
}

func (e *Engine) visitCall(node *sitter.Node) {
	name, fullPath, ok := astutil.CalleeName(node, e.source)
	if !ok {
		// Unexpected callee shape: cannot classify, so not a sink.
		return
	}

	if e.ignored(node) {
		return
	}

	if e.check.Audit != nil {
		e.auditScope(node, name)
		return
	}

	pattern, matched := e.check.Catalog.MatchCall(name, fullPath)
	if !matched {
		rendered := astutil.NodeContent(node, e.source)
		pattern, matched = e.check.Catalog.MatchRendered(rendered)
		if !matched {
			if !e.matchesGenericSignature(rendered) {
				return
			}
			e.emitGeneric(node, fullPath)
			return
		}
	}

	args := astutil.CallArguments(node)
	e.report(node, pattern, args)
}

func (e *Engine) visitAssignment(node *sitter.Node) {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || right == nil || e.check.Audit != nil {
		return
	}

	path := astutil.FlattenPropertyAccess(left, e.source)
	if path == nil {
		return
	}
	if e.ignored(node) {
		return
	}

	name := path[len(path)-1]
	pattern, matched := e.check.Catalog.MatchProperty(name, strings.Join(path, "."))
	if !matched {
		return
	}

	e.report(node, pattern, []*sitter.Node{right})
}

// report applies the literal exemptions, resolves taint per argument, grades
// and emits at most one finding for the node.
func (e *Engine) report(node *sitter.Node, pattern catalog.SinkPattern, args []*sitter.Node) {
	if len(args) == 0 {
		return
	}

	if astutil.HasOnlyLiteralArguments(args, e.source) {
		if !e.literalExempt(args) && pattern.Dangerous {
			verdict := taint.Verdict{Sanitized: true}
			msg := fmt.Sprintf("%s is dangerous even with constant arguments", pattern.Name)
			e.emitter.Emit(e.file, e.source, node, pattern, risk.Classify(pattern, verdict), verdict, msg)
			return
		}
		if msg, reportable := e.inspectLiteral(pattern, args); reportable {
			e.emitter.Emit(e.file, e.source, node, pattern, schemas.SeverityMedium, taint.Verdict{Sanitized: true}, msg)
		}
		return
	}

	for _, arg := range args {
		verdict := e.resolver.Resolve(node, arg)
		if !verdict.Dynamic {
			continue
		}
		if verdict.Sanitized {
			e.logger.Debug("sink argument intercepted by sanitizer",
				zap.String("sink", pattern.Name),
				zap.String("sanitizer", verdict.Sanitizer))
			continue
		}
		severity := risk.Classify(pattern, verdict)
		e.emitter.Emit(e.file, e.source, node, pattern, severity, verdict, "")
		// One finding per sink node; stop at the first hot argument.
		return
	}

	// No argument was hot, but a literal-structure inspector may still
	// flag the call (nested-quantifier regex literals and the like).
	if msg, reportable := e.inspectLiteral(pattern, args); reportable {
		e.emitter.Emit(e.file, e.source, node, pattern, schemas.SeverityMedium, taint.Verdict{Sanitized: true}, msg)
	}
}

// emitGeneric handles sink-like calls with no catalog entry. A hot argument
// reports HIGH; a call whose arguments are all constant still surfaces at the
// MEDIUM floor unless the literal exemptions cover it, so a catalog miss
// never passes silently.
func (e *Engine) emitGeneric(node *sitter.Node, name string) {
	pattern := catalog.Generic(name)
	pattern.Class = e.check.Class
	args := astutil.CallArguments(node)
	if len(args) == 0 {
		return
	}
	intercepted := false
	for _, arg := range args {
		verdict := e.resolver.Resolve(node, arg)
		if verdict.Hot() {
			e.emitter.Emit(e.file, e.source, node, pattern, risk.ClassifyGeneric(verdict), verdict, "")
			return
		}
		if verdict.Sanitizer != "" {
			intercepted = true
		}
	}
	if intercepted {
		return
	}
	if !astutil.HasOnlyLiteralArguments(args, e.source) || e.literalExempt(args) {
		return
	}
	e.emitter.Emit(e.file, e.source, node, pattern, risk.ClassifyGeneric(taint.Verdict{}), taint.Verdict{}, "")
}

// literalExempt reports whether the check's allow flags cover every argument:
// literal arrays need AllowLiteralArrayArguments, every other literal needs
// AllowLiteralArguments.
func (e *Engine) literalExempt(args []*sitter.Node) bool {
	for _, arg := range args {
		if astutil.IsLiteralArray(arg, e.source) {
			if !e.check.AllowLiteralArrayArguments {
				return false
			}
			continue
		}
		if !e.check.AllowLiteralArguments {
			return false
		}
	}
	return true
}

// auditScope implements the at-most-one-finding-per-scope checks. The scope
// is marked visited before any verdict, so later calls in the same body are
// skipped whether or not this visit reports.
func (e *Engine) auditScope(node *sitter.Node, callName string) {
	audit := e.check.Audit
	if !audit.MethodNames[callName] {
		return
	}

	boundary := scope.Enclosing(node)
	if boundary == nil {
		return
	}
	if !e.emitter.VisitScope(scope.Key(boundary)) {
		return
	}

	present := map[string]bool{}
	e.collectHeaderNames(scope.Body(boundary), audit.MethodNames, present)

	var missing []string
	for _, h := range audit.RequiredHeaders {
		if !present[strings.ToLower(h)] {
			missing = append(missing, h)
		}
	}
	if len(missing) == 0 {
		return
	}

	pattern := catalog.SinkPattern{
		Name:     "response-headers",
		Class:    schemas.ClassMissingHeader,
		BaseTier: schemas.SeverityMedium,
	}
	msg := "missing required security headers: " + strings.Join(missing, ", ")
	e.emitter.Emit(e.file, e.source, boundary, pattern, schemas.SeverityMedium, taint.Verdict{}, msg)
}

// collectHeaderNames gathers the literal first arguments of every
// header-setting call beneath body.
func (e *Engine) collectHeaderNames(body *sitter.Node, methods map[string]bool, present map[string]bool) {
	if body == nil {
		return
	}
	if body.Type() == "call_expression" {
		if name, _, ok := astutil.CalleeName(body, e.source); ok && methods[name] {
			args := astutil.CallArguments(body)
			if len(args) > 0 && args[0].Type() == "string" {
				raw := astutil.NodeContent(args[0], e.source)
				present[strings.ToLower(strings.Trim(raw, "\"'`"))] = true
			}
		}
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		e.collectHeaderNames(body.NamedChild(i), methods, present)
	}
}

func (e *Engine) inspectLiteral(pattern catalog.SinkPattern, args []*sitter.Node) (string, bool) {
	if e.check.Literal == nil {
		return "", false
	}
	return e.check.Literal(pattern, args, e.source)
}

func (e *Engine) matchesGenericSignature(rendered string) bool {
	for _, re := range e.check.GenericSignatures {
		if re.MatchString(rendered) {
			return true
		}
	}
	return false
}

func (e *Engine) ignored(node *sitter.Node) bool {
	if len(e.ignores) == 0 {
		return false
	}
	text := astutil.NodeContent(node, e.source)
	for _, m := range e.ignores {
		if m.matches(text) {
			return true
		}
	}
	return false
}
