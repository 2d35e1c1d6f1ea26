// Package scope maps source names to names that are safe and unique in
// the generated target text.
package scope

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPrefix is used by Symbol when no prefix is given.
const DefaultPrefix = "sym"

// Scope is a symbol table for one compilation unit. Function bodies
// work on a Copy, so their bindings never reach the enclosing scope.
type Scope struct {
	locals   map[string]string // source -> target
	taken    map[string]bool   // every target handed out in this lineage
	reserved map[string]bool   // targets that are never generated
}

// New creates the root scope of a compilation. Reserved names are
// avoided by Register, RegisterAs and Symbol but may still be bound
// explicitly with Bind.
func New(reserved ...string) *Scope {
	s := &Scope{
		locals:   map[string]string{},
		taken:    map[string]bool{},
		reserved: map[string]bool{},
	}
	for _, r := range reserved {
		s.reserved[r] = true
	}
	return s
}

// Register binds name to a fresh target name derived from it.
func (this *Scope) Register(name string) string {
	return this.RegisterAs(name, name)
}

// RegisterAs binds name to a fresh target name derived from base.
// Collisions are resolved by appending an increasing number.
func (this *Scope) RegisterAs(name string, base string) string {
	safe := SafeName(base)
	target := safe
	n := 1
	for this.taken[target] || this.reserved[target] {
		target = safe + strconv.Itoa(n)
		n++
	}
	this.locals[name] = target
	this.taken[target] = true
	return target
}

// Bind binds name to a location chosen by the caller (a register).
// It returns false if another name in this scope already lives there.
func (this *Scope) Bind(name string, location string) bool {
	for source, target := range this.locals {
		if target == location && source != name {
			return false
		}
	}
	this.locals[name] = location
	this.taken[location] = true
	return true
}

// Symbol synthesizes a temporary. The name is built from the size of
// the scope, Register takes care of the rare collision.
func (this *Scope) Symbol(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	nth := len(this.locals) + 1
	return this.Register(prefix + strconv.Itoa(nth))
}

func (this *Scope) Get(name string) (string, bool) {
	target, ok := this.locals[name]
	return target, ok
}

func (this *Scope) Len() int {
	return len(this.locals)
}

// Copy forks the scope. The reserved set is shared, it never changes
// after New.
func (this *Scope) Copy() *Scope {
	child := &Scope{
		locals:   make(map[string]string, len(this.locals)),
		taken:    make(map[string]bool, len(this.taken)),
		reserved: this.reserved,
	}
	for k, v := range this.locals {
		child.locals[k] = v
	}
	for k, v := range this.taken {
		child.taken[k] = v
	}
	return child
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SafeName turns a source identifier into one accepted by both NASM and
// LLVM: letters, digits and underscores, never starting with a digit.
func SafeName(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	for _, r := range folded {
		if isSafe(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || isDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

func isSafe(r rune) bool {
	return r == '_' || isDigit(r) ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
