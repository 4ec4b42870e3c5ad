// Package rules holds the checks applied by the analyzer. Node rules inspect
// one syntax node at a time, line rules inspect one raw source line. Rules are
// stateless and independent of each other.
package rules

import (
	"fmt"

	"github.com/rohankatakam/csmell/internal/models"
	"github.com/rohankatakam/csmell/internal/syntax"
)

// Rule is the metadata shared by node and line rules
type Rule interface {
	ID() string
	Category() models.Category
	Description() string
}

// NodeRule maps a syntax node to zero or more findings
type NodeRule interface {
	Rule
	Check(n syntax.Node) []models.Finding
}

// LineRule maps a source line to zero or more findings
type LineRule interface {
	Rule
	Check(line models.Line) []models.Finding
}

type info struct {
	id          string
	category    models.Category
	description string
}

func (i info) ID() string                { return i.id }
func (i info) Category() models.Category { return i.category }
func (i info) Description() string       { return i.description }

type nodeFunc struct {
	info
	fn func(syntax.Node) []models.Finding
}

func (r nodeFunc) Check(n syntax.Node) []models.Finding { return r.fn(n) }

// NewNodeRule adapts a function into a NodeRule
func NewNodeRule(id string, category models.Category, description string, fn func(syntax.Node) []models.Finding) NodeRule {
	return nodeFunc{info: info{id, category, description}, fn: fn}
}

type lineFunc struct {
	info
	fn func(models.Line) []models.Finding
}

func (r lineFunc) Check(line models.Line) []models.Finding { return r.fn(line) }

// NewLineRule adapts a function into a LineRule
func NewLineRule(id string, category models.Category, description string, fn func(models.Line) []models.Finding) LineRule {
	return lineFunc{info: info{id, category, description}, fn: fn}
}

// Registry is an ordered set of rules. Registration order is the order in
// which findings for the same node or line are reported.
type Registry struct {
	nodeRules []NodeRule
	lineRules []LineRule
	ids       map[string]bool
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]bool)}
}

// RegisterNode appends a node rule. IDs must be unique across the registry.
func (r *Registry) RegisterNode(rule NodeRule) error {
	if err := r.claim(rule); err != nil {
		return err
	}
	r.nodeRules = append(r.nodeRules, rule)
	return nil
}

// RegisterLine appends a line rule. IDs must be unique across the registry.
func (r *Registry) RegisterLine(rule LineRule) error {
	if err := r.claim(rule); err != nil {
		return err
	}
	r.lineRules = append(r.lineRules, rule)
	return nil
}

func (r *Registry) claim(rule Rule) error {
	if rule == nil {
		return fmt.Errorf("rule must not be nil")
	}
	id := rule.ID()
	if id == "" {
		return fmt.Errorf("rule id must not be empty")
	}
	if !rule.Category().Valid() {
		return fmt.Errorf("rule %s: unknown category %q", id, rule.Category())
	}
	if r.ids[id] {
		return fmt.Errorf("rule %s is already registered", id)
	}
	r.ids[id] = true
	return nil
}

// NodeRules returns the node rules in registration order
func (r *Registry) NodeRules() []NodeRule {
	return append([]NodeRule(nil), r.nodeRules...)
}

// LineRules returns the line rules in registration order
func (r *Registry) LineRules() []LineRule {
	return append([]LineRule(nil), r.lineRules...)
}

// All returns every rule, node rules first
func (r *Registry) All() []Rule {
	all := make([]Rule, 0, len(r.nodeRules)+len(r.lineRules))
	for _, rule := range r.nodeRules {
		all = append(all, rule)
	}
	for _, rule := range r.lineRules {
		all = append(all, rule)
	}
	return all
}

// Has reports whether a rule with the given ID is registered
func (r *Registry) Has(id string) bool {
	return r.ids[id]
}

// Without returns a copy of the registry minus the given rule IDs.
// Unknown IDs are an error so typos in configuration do not go unnoticed.
func (r *Registry) Without(ids ...string) (*Registry, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !r.ids[id] {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		drop[id] = true
	}

	out := NewRegistry()
	for _, rule := range r.nodeRules {
		if !drop[rule.ID()] {
			out.nodeRules = append(out.nodeRules, rule)
			out.ids[rule.ID()] = true
		}
	}
	for _, rule := range r.lineRules {
		if !drop[rule.ID()] {
			out.lineRules = append(out.lineRules, rule)
			out.ids[rule.ID()] = true
		}
	}
	return out, nil
}
