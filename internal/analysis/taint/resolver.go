// Package taint implements the heuristic taint resolver: a bounded,
// intraprocedural, same-scope, backward, name/text approximation. It never
// looks into called functions, never follows values outside the look-back
// window, and never proves that a matched validation call validates the
// value that reaches the sink. That unsoundness is the documented contract,
// not a defect to fix: tightening it into real data-flow analysis would
// change observable behavior.
package taint

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/kvasirsec/sinkhound/internal/analysis/astutil"
	"github.com/kvasirsec/sinkhound/internal/analysis/scope"
)

// Verdict is the per-argument result of resolution. It is computed fresh per
// sink visit and has no persistent identity.
type Verdict struct {
	Dynamic   bool
	Sanitized bool
	// Sanitizer names the recognized sanitizer or validation signature when
	// Sanitized was established by one.
	Sanitizer string
}

// Hot reports whether the verdict is the reportable combination:
// attacker-influenced and not intercepted.
func (v Verdict) Hot() bool {
	return v.Dynamic && !v.Sanitized
}

// Config carries the knobs the resolver consumes.
type Config struct {
	// TrustedLibraries are name fragments recognized as sanitizing
	// (case-insensitive substring match against the call path).
	TrustedLibraries []string
	// LookBack bounds the preceding-statement window. Zero means the
	// default.
	LookBack int
}

// Resolver decides whether a sink argument is tainted and whether a
// sanitizer intercepts it. One resolver serves one file's source buffer.
type Resolver struct {
	logger *zap.Logger
	source []byte
	cfg    Config
}

// NewResolver builds a resolver over one file's source.
func NewResolver(logger *zap.Logger, source []byte, cfg Config) *Resolver {
	if cfg.LookBack <= 0 {
		cfg.LookBack = scope.DefaultLookBack
	}
	return &Resolver{
		logger: logger.Named("taint"),
		source: source,
		cfg:    cfg,
	}
}

// Resolve classifies the value flowing from argNode into sinkNode.
func (r *Resolver) Resolve(sinkNode, argNode *sitter.Node) Verdict {
	if argNode == nil || argNode.IsNull() {
		// Cannot classify: conservatively not tainted (under-reporting beats
		// crashing on a structural assumption).
		return Verdict{}
	}

	// 1. Lexical user-input signature, then structural dynamism.
	dynamic := r.looksLikeUserInput(argNode) || astutil.IsDynamicValue(argNode, r.source)

	// 2. A static value needs no interception; nothing to flag.
	if !dynamic {
		return Verdict{Dynamic: false, Sanitized: true}
	}

	// 3. The argument, or an ancestor expression feeding the sink, may
	// itself be a trusted sanitizer call.
	if name, ok := r.sanitizerBetween(sinkNode, argNode); ok {
		return Verdict{Dynamic: true, Sanitized: true, Sanitizer: name}
	}

	// 4. Bounded backward scan for validation signatures in the same scope.
	if name, ok := r.precedingValidation(sinkNode); ok {
		r.logger.Debug("validation signature accepted as sanitizer",
			zap.String("signature", name))
		return Verdict{Dynamic: true, Sanitized: true, Sanitizer: name}
	}

	// 5. Dynamic and unintercepted.
	return Verdict{Dynamic: true, Sanitized: false}
}

// looksLikeUserInput applies the textual request/navigation signature and
// the dangerous-identifier name heuristics.
func (r *Resolver) looksLikeUserInput(node *sitter.Node) bool {
	text := astutil.NodeContent(node, r.source)
	if userInputSignature.MatchString(text) {
		return true
	}

	if node.Type() != "identifier" {
		return false
	}
	name := strings.ToLower(text)
	if dangerousIdentifiers[name] {
		return true
	}
	for _, frag := range suspiciousSubstrings {
		if strings.Contains(name, frag) {
			return true
		}
	}
	return false
}

// sanitizerBetween checks argNode and every expression between it and the
// sink for a trusted sanitizer call.
func (r *Resolver) sanitizerBetween(sinkNode, argNode *sitter.Node) (string, bool) {
	if name, ok := astutil.IsSanitizerCall(argNode, r.cfg.TrustedLibraries, r.source); ok {
		return name, true
	}

	// Nested shapes like sink(wrap(DOMPurify.sanitize(x))) intercept too:
	// scan call expressions inside the argument.
	if name, ok := r.sanitizerWithin(argNode, 0); ok {
		return name, true
	}

	// Ancestors of the argument up to (exclusive) the sink node.
	current := argNode.Parent()
	for current != nil {
		if sinkNode != nil && current.StartByte() == sinkNode.StartByte() && current.EndByte() == sinkNode.EndByte() {
			break
		}
		if name, ok := astutil.IsSanitizerCall(current, r.cfg.TrustedLibraries, r.source); ok {
			return name, true
		}
		current = current.Parent()
	}
	return "", false
}

// sanitizerWithin walks the argument subtree looking for sanitizer calls.
// Depth is bounded to keep worst-case cost flat on pathological trees.
func (r *Resolver) sanitizerWithin(node *sitter.Node, depth int) (string, bool) {
	const maxDepth = 8
	if node == nil || depth > maxDepth {
		return "", false
	}
	if name, ok := astutil.IsSanitizerCall(node, r.cfg.TrustedLibraries, r.source); ok {
		return name, true
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if name, ok := r.sanitizerWithin(node.NamedChild(i), depth+1); ok {
			return name, true
		}
	}
	return "", false
}

// precedingValidation textually tests the bounded window of preceding
// statements for validation signatures. First match wins.
func (r *Resolver) precedingValidation(sinkNode *sitter.Node) (string, bool) {
	boundary := scope.Enclosing(sinkNode)
	stmts := scope.Preceding(sinkNode, boundary, r.cfg.LookBack)
	for _, stmt := range stmts {
		text := astutil.NodeContent(stmt, r.source)
		for _, sig := range validationSignatures {
			if sig.re.MatchString(text) {
				return sig.name, true
			}
		}
	}
	return "", false
}
