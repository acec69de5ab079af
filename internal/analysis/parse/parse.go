// Package parse owns the tree-sitter boundary. Everything downstream works
// on *sitter.Node and never touches the parser directly.
package parse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"go.uber.org/zap"
)

// Parser wraps a tree-sitter parser configured for JavaScript.
type Parser struct {
	logger *zap.Logger
	parser *sitter.Parser
}

// NewParser returns a parser ready for JavaScript source.
func NewParser(logger *zap.Logger) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Parser{
		logger: logger.Named("parse"),
		parser: p,
	}
}

// Parse builds a syntax tree for the given source. Tree-sitter recovers from
// syntax errors by inserting ERROR nodes, so a malformed file still yields a
// usable tree; we log the condition and analyze what parsed.
func (p *Parser) Parse(ctx context.Context, file string, source []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	if tree.RootNode().HasError() {
		p.logger.Warn("source contains syntax errors, analyzing recovered tree",
			zap.String("file", file))
	}
	return tree, nil
}

// Close releases the underlying parser.
func (p *Parser) Close() {
	p.parser.Close()
}
