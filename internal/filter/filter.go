// Package filter decides which top-level declarations belong in the listing.
//
// A name is judged by the first matching rule:
//
//	exclude  exact member of the exclusion set        -> dropped
//	include  exact member of the inclusion set        -> kept
//	debug    starts with a library-internal prefix    -> dropped
//	prefix   starts with the public library prefix    -> kept
//	default  anything else                            -> dropped
package filter

import (
	"strings"

	"github.com/renpy/pxdgen/internal/ast"
	"github.com/renpy/pxdgen/internal/config"
)

// Rule identifies the rule that decided a verdict.
type Rule string

const (
	RuleExclude Rule = "exclude"
	RuleInclude Rule = "include"
	RuleDebug   Rule = "debug"
	RulePrefix  Rule = "prefix"
	RuleDefault Rule = "default"
)

// Verdict is the outcome of filtering one name.
type Verdict struct {
	Name    string
	Allowed bool
	Rule    Rule
	// Match is the set entry or prefix that matched, empty for RuleDefault.
	Match string
}

// Filter holds the name tables. It is safe for concurrent use once built.
type Filter struct {
	prefix  string
	debug   []string
	include map[string]struct{}
	exclude map[string]struct{}
}

// New builds a Filter from configuration.
func New(cfg config.FilterConfig) *Filter {
	f := &Filter{
		prefix:  cfg.Prefix,
		debug:   append([]string(nil), cfg.DebugPrefixes...),
		include: make(map[string]struct{}, len(cfg.Include)),
		exclude: make(map[string]struct{}, len(cfg.Exclude)),
	}
	for _, name := range cfg.Include {
		f.include[name] = struct{}{}
	}
	for _, name := range cfg.Exclude {
		f.exclude[name] = struct{}{}
	}
	return f
}

// Allow reports whether name is in scope.
func (f *Filter) Allow(name string) bool {
	return f.Explain(name).Allowed
}

// Explain returns the verdict for name together with the rule that decided it.
func (f *Filter) Explain(name string) Verdict {
	if _, ok := f.exclude[name]; ok {
		return Verdict{Name: name, Rule: RuleExclude, Match: name}
	}
	if _, ok := f.include[name]; ok {
		return Verdict{Name: name, Allowed: true, Rule: RuleInclude, Match: name}
	}
	for _, p := range f.debug {
		if strings.HasPrefix(name, p) {
			return Verdict{Name: name, Rule: RuleDebug, Match: p}
		}
	}
	if f.prefix != "" && strings.HasPrefix(name, f.prefix) {
		return Verdict{Name: name, Allowed: true, Rule: RulePrefix, Match: f.prefix}
	}
	return Verdict{Name: name, Rule: RuleDefault}
}

// Check reports whether n is in scope. A node that carries a name is judged
// by that name alone; an unnamed node is in scope when any descendant's
// name is.
func (f *Filter) Check(n ast.Node) bool {
	if name, ok := ast.Name(n); ok {
		return f.Allow(name)
	}
	for _, c := range ast.Children(n) {
		if f.Check(c) {
			return true
		}
	}
	return false
}
