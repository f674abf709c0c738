// Package codegen implements the multi-target emitter (spec §4.4): one Go
// method per AST node kind, fanning out into shared/server/client/form/
// deploy/test outputs. Every emitter method hangs off *Context, which holds
// all per-compilation mutable state (fresh-name counters, the used-helper
// set, locally-declared names) so two Compile calls never share state
// (spec §9 "no global mutable state").
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tova-lang/tova/internal/types"
)

// Context is threaded through every emitter method. It never survives past
// a single compilation: internal/compiler constructs a fresh one per call.
type Context struct {
	registry *types.Registry

	sb strings.Builder

	indent int

	// fresh-name counters, spec §9.
	cmpCounter     int
	enteredCounter int
	matchCounter   int
	ssrCounter     int

	// helpers referenced so far; only these are emitted into the shared
	// preamble (spec §4.4 "includes only referenced helpers").
	helpers map[string]bool

	// names declared `let`/`const` in the current JS scope, so a bare
	// assignment to an already-declared name skips the keyword.
	declared map[string]bool

	scopeHashes map[string]string
}

// NewContext returns a Context ready to emit against reg, the type registry
// built by the analyzer for this compilation.
func NewContext(reg *types.Registry) *Context {
	return &Context{
		registry:    reg,
		helpers:     make(map[string]bool),
		declared:    make(map[string]bool),
		scopeHashes: make(map[string]string),
	}
}

func (c *Context) write(s string) { c.sb.WriteString(s) }

func (c *Context) writef(format string, args ...any) { fmt.Fprintf(&c.sb, format, args...) }

func (c *Context) writeLine(s string) {
	c.sb.WriteString(strings.Repeat("  ", c.indent))
	c.sb.WriteString(s)
	c.sb.WriteString("\n")
}

func (c *Context) linef(format string, args ...any) {
	c.writeLine(fmt.Sprintf(format, args...))
}

func (c *Context) String() string { return c.sb.String() }

// useHelper marks name as referenced; the shared preamble builder consults
// this set to decide which runtime helper bodies to include.
func (c *Context) useHelper(name string) { c.helpers[name] = true }

func (c *Context) usesHelper(name string) bool { return c.helpers[name] }

func (c *Context) usedHelpers() []string {
	names := make([]string, 0, len(c.helpers))
	for n := range c.helpers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Context) freshCmp() string {
	c.cmpCounter++
	return fmt.Sprintf("__cmp_%d", c.cmpCounter)
}

func (c *Context) freshEntered() string {
	c.enteredCounter++
	return fmt.Sprintf("__entered_%d", c.enteredCounter)
}

func (c *Context) freshMatch() string {
	c.matchCounter++
	return fmt.Sprintf("__match_%d", c.matchCounter)
}

func (c *Context) nextSSRID() int {
	c.ssrCounter++
	return c.ssrCounter
}

// declare records name as already `let`/`const`-bound in the emitted JS
// scope, so a later bare reassignment to it doesn't redeclare it (spec
// §4.4 base emitter table, row 2).
func (c *Context) declare(name string) bool {
	if c.declared[name] {
		return false
	}
	c.declared[name] = true
	return true
}

// fnv1a32 hashes s the same way the client emitter scopes component CSS
// (spec §4.4 "scoped CSS via FNV-1a hash"), truncated to an 8-char suffix.
func fnv1a32(s string) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
	)
	h := uint32(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// scopeHashSuffix returns the deterministic 8-char CSS scope suffix for
// (componentName, cssText), caching it per Context so repeated lookups for
// the same component are stable and cheap.
func (c *Context) scopeHashSuffix(componentName, cssText string) string {
	key := componentName + "\x00" + cssText
	if hash, ok := c.scopeHashes[key]; ok {
		return hash
	}
	h := fmt.Sprintf("%08x", fnv1a32(key))[:8]
	c.scopeHashes[key] = h
	return h
}
