// Package identity generates collision-free local identifiers for documents.
package identity

import "github.com/google/uuid"

// Generator produces identifiers for documents that do not carry one yet.
type Generator struct {
	taken map[string]bool
}

// NewGenerator creates a generator seeded with the identifiers already in use.
func NewGenerator() *Generator {
	return &Generator{taken: make(map[string]bool)}
}

// Reserve marks an identifier as already in use.
func (g *Generator) Reserve(id string) {
	if id != "" {
		g.taken[id] = true
	}
}

// Next returns a fresh identifier guaranteed not to collide with any reserved
// or previously returned one.
func (g *Generator) Next() string {
	for {
		id := uuid.NewString()
		if !g.taken[id] {
			g.taken[id] = true
			return id
		}
	}
}
