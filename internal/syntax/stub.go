//go:build !cgo

package syntax

import "context"

// Parser wraps tree-sitter parsing functionality.
// This is a stub implementation for non-CGO builds.
type Parser struct{}

// NewParser creates a new parser.
// Returns nil when CGO is disabled.
func NewParser() *Parser {
	return nil
}

// IsAvailable returns whether parsing is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}

// Parse is unavailable without CGO.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Tree, error) {
	return nil, ErrNoCGO
}

// Reparse is unavailable without CGO.
func (p *Parser) Reparse(ctx context.Context, edit Edit, src []byte) (*Tree, error) {
	return nil, ErrNoCGO
}
