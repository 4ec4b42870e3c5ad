package rules

import (
	"fmt"

	"github.com/rohankatakam/csmell/internal/models"
	"github.com/rohankatakam/csmell/internal/syntax"
)

// Rule IDs of the structural checks
const (
	IDLongFunction      = "long-function"
	IDLargeClass        = "large-class"
	IDNestedLoop        = "nested-loop"
	IDSingletonInstance = "singleton-instance"
)

// SingletonAttr is the attribute name that marks a hand-rolled singleton
const SingletonAttr = "_instance"

// LongFunction flags functions whose direct body has more than Max statements
type LongFunction struct {
	Max int
}

func (r LongFunction) ID() string                { return IDLongFunction }
func (r LongFunction) Category() models.Category { return models.CategoryCodeSmell }
func (r LongFunction) Description() string {
	return fmt.Sprintf("function body has more than %d statements", r.Max)
}

func (r LongFunction) Check(n syntax.Node) []models.Finding {
	fn, ok := n.(*syntax.FunctionDef)
	if !ok || len(fn.Body) <= r.Max {
		return nil
	}
	return []models.Finding{models.NewFinding(models.CategoryCodeSmell, IDLongFunction, fn.Line(),
		"Function '%s' is too long (more than %d lines).", fn.Name, r.Max)}
}

// LargeClass flags classes with more than Max direct method definitions
type LargeClass struct {
	Max int
}

func (r LargeClass) ID() string                { return IDLargeClass }
func (r LargeClass) Category() models.Category { return models.CategoryCodeSmell }
func (r LargeClass) Description() string {
	return fmt.Sprintf("class defines more than %d methods directly", r.Max)
}

func (r LargeClass) Check(n syntax.Node) []models.Finding {
	class, ok := n.(*syntax.ClassDef)
	if !ok {
		return nil
	}
	methods := 0
	for _, member := range class.Body {
		if _, ok := member.(*syntax.FunctionDef); ok {
			methods++
		}
	}
	if methods <= r.Max {
		return nil
	}
	return []models.Finding{models.NewFinding(models.CategoryCodeSmell, IDLargeClass, class.Line(),
		"Class '%s' is too large (more than %d methods).", class.Name, r.Max)}
}

// NestedLoop flags a loop whose body directly contains another loop.
// Loops reached through an intermediate statement (an if, a with) do not count.
type NestedLoop struct{}

func (NestedLoop) ID() string                { return IDNestedLoop }
func (NestedLoop) Category() models.Category { return models.CategoryCodeSmell }
func (NestedLoop) Description() string       { return "loop body directly contains another loop" }

func (NestedLoop) Check(n syntax.Node) []models.Finding {
	loop, ok := n.(*syntax.Loop)
	if !ok {
		return nil
	}
	for _, stmt := range loop.Body {
		if _, ok := stmt.(*syntax.Loop); ok {
			return []models.Finding{models.NewFinding(models.CategoryCodeSmell, IDNestedLoop, loop.Line(),
				"Nested loops detected at line %d.", loop.Line())}
		}
	}
	return nil
}

// SingletonInstance flags assignments to an attribute named _instance, once
// per matching target
type SingletonInstance struct{}

func (SingletonInstance) ID() string                { return IDSingletonInstance }
func (SingletonInstance) Category() models.Category { return models.CategoryAntiPattern }
func (SingletonInstance) Description() string {
	return "assignment to an attribute named " + SingletonAttr
}

func (SingletonInstance) Check(n syntax.Node) []models.Finding {
	assign, ok := n.(*syntax.Assign)
	if !ok {
		return nil
	}
	var findings []models.Finding
	for _, target := range assign.Targets {
		attr, ok := target.(*syntax.Attribute)
		if !ok || attr.Attr != SingletonAttr {
			continue
		}
		findings = append(findings, models.NewFinding(models.CategoryAntiPattern, IDSingletonInstance, assign.Line(),
			"Potential Singleton pattern detected with '%s' attribute.", SingletonAttr))
	}
	return findings
}
