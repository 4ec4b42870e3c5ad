package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/rohankatakam/csmell/internal/limits"
)

// lowerer converts a tree-sitter Python tree into Node values
type lowerer struct {
	code   []byte
	limits limits.Limits
	nodes  int
}

// Extras that are not statements or expressions
var ignoredKinds = map[string]bool{
	"comment":           true,
	"line_continuation": true,
}

func (l *lowerer) module(root *sitter.Node) (*Module, error) {
	if err := l.count(root, 0); err != nil {
		return nil, err
	}
	body, err := l.named(root, 1)
	if err != nil {
		return nil, err
	}
	return &Module{pos: pos{line: 1}, Body: body}, nil
}

// count enforces the node and depth ceilings for one lowered node
func (l *lowerer) count(n *sitter.Node, depth int) error {
	l.nodes++
	line := nodeLine(n)
	if err := limits.Check(limits.ResourceNodes, l.nodes, l.limits.MaxNodes, line); err != nil {
		return err
	}
	return limits.Check(limits.ResourceDepth, depth, l.limits.MaxDepth, line)
}

func (l *lowerer) lower(n *sitter.Node, depth int) (Node, error) {
	if err := l.count(n, depth); err != nil {
		return nil, err
	}

	switch n.Kind() {
	case "function_definition":
		return l.functionDef(n, nil, nodeLine(n), depth)
	case "class_definition":
		return l.classDef(n, nil, nodeLine(n), depth)
	case "decorated_definition":
		return l.decorated(n, depth)
	case "for_statement":
		return l.forLoop(n, depth)
	case "while_statement":
		return l.whileLoop(n, depth)
	case "assignment":
		if n.ChildByFieldName("type") != nil {
			// annotated assignment (x: int = 1) is not a plain assignment
			return l.generic(n, depth)
		}
		return l.assign(n, depth)
	case "attribute":
		return l.attribute(n, depth)
	case "identifier":
		return &Name{pos: pos{line: nodeLine(n)}, ID: nodeText(n, l.code)}, nil
	default:
		return l.generic(n, depth)
	}
}

// named lowers the named children of n. Blocks are spliced into the result.
func (l *lowerer) named(n *sitter.Node, depth int) ([]Node, error) {
	if n == nil {
		return nil, nil
	}
	var out []Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || ignoredKinds[child.Kind()] {
			continue
		}
		if child.Kind() == "block" {
			stmts, err := l.named(child, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, stmts...)
			continue
		}
		lowered, err := l.lower(child, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered)
	}
	return out, nil
}

// suite lowers a body field: a block yields its statements, a lone
// statement yields itself
func (l *lowerer) suite(n *sitter.Node, depth int) ([]Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind() == "block" {
		return l.named(n, depth)
	}
	if ignoredKinds[n.Kind()] {
		return nil, nil
	}
	lowered, err := l.lower(n, depth)
	if err != nil {
		return nil, err
	}
	return []Node{lowered}, nil
}

func (l *lowerer) optional(n *sitter.Node, depth int) ([]Node, error) {
	if n == nil {
		return nil, nil
	}
	lowered, err := l.lower(n, depth)
	if err != nil {
		return nil, err
	}
	return []Node{lowered}, nil
}

func (l *lowerer) functionDef(n *sitter.Node, decorators []Node, line, depth int) (*FunctionDef, error) {
	fn := &FunctionDef{
		pos:        pos{line: line},
		Name:       nodeText(n.ChildByFieldName("name"), l.code),
		Async:      hasToken(n, "async"),
		Decorators: decorators,
	}

	var err error
	if fn.Params, err = l.named(n.ChildByFieldName("parameters"), depth+1); err != nil {
		return nil, err
	}
	if fn.Body, err = l.suite(n.ChildByFieldName("body"), depth+1); err != nil {
		return nil, err
	}
	return fn, nil
}

func (l *lowerer) classDef(n *sitter.Node, decorators []Node, line, depth int) (*ClassDef, error) {
	class := &ClassDef{
		pos:        pos{line: line},
		Name:       nodeText(n.ChildByFieldName("name"), l.code),
		Decorators: decorators,
	}

	var err error
	if class.Bases, err = l.named(n.ChildByFieldName("superclasses"), depth+1); err != nil {
		return nil, err
	}
	if class.Body, err = l.suite(n.ChildByFieldName("body"), depth+1); err != nil {
		return nil, err
	}
	return class, nil
}

// decorated unwraps a decorated_definition into the definition it decorates.
// The line is the def/class keyword line, not the first decorator.
func (l *lowerer) decorated(n *sitter.Node, depth int) (Node, error) {
	def := n.ChildByFieldName("definition")
	if def == nil {
		return l.generic(n, depth)
	}

	var decorators []Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() != "decorator" {
			continue
		}
		lowered, err := l.lower(child, depth+1)
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, lowered)
	}

	switch def.Kind() {
	case "function_definition":
		return l.functionDef(def, decorators, nodeLine(def), depth)
	case "class_definition":
		return l.classDef(def, decorators, nodeLine(def), depth)
	default:
		return l.generic(n, depth)
	}
}

func (l *lowerer) forLoop(n *sitter.Node, depth int) (*Loop, error) {
	loop := &Loop{pos: pos{line: nodeLine(n)}, Kind: LoopFor, Async: hasToken(n, "async")}

	left, err := l.optional(n.ChildByFieldName("left"), depth+1)
	if err != nil {
		return nil, err
	}
	right, err := l.optional(n.ChildByFieldName("right"), depth+1)
	if err != nil {
		return nil, err
	}
	loop.Header = append(left, right...)

	if err := l.loopBody(loop, n, depth); err != nil {
		return nil, err
	}
	return loop, nil
}

func (l *lowerer) whileLoop(n *sitter.Node, depth int) (*Loop, error) {
	loop := &Loop{pos: pos{line: nodeLine(n)}, Kind: LoopWhile}

	var err error
	if loop.Header, err = l.optional(n.ChildByFieldName("condition"), depth+1); err != nil {
		return nil, err
	}
	if err := l.loopBody(loop, n, depth); err != nil {
		return nil, err
	}
	return loop, nil
}

func (l *lowerer) loopBody(loop *Loop, n *sitter.Node, depth int) error {
	var err error
	if loop.Body, err = l.suite(n.ChildByFieldName("body"), depth+1); err != nil {
		return err
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if loop.Else, err = l.suite(alt.ChildByFieldName("body"), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// assign flattens a = b = c into one Assign with targets [a, b]
func (l *lowerer) assign(n *sitter.Node, depth int) (*Assign, error) {
	a := &Assign{pos: pos{line: nodeLine(n)}}

	cur := n
	for {
		if left := cur.ChildByFieldName("left"); left != nil {
			target, err := l.lower(left, depth+1)
			if err != nil {
				return nil, err
			}
			a.Targets = append(a.Targets, target)
		}

		right := cur.ChildByFieldName("right")
		if right == nil {
			return a, nil
		}
		if right.Kind() == "assignment" && right.ChildByFieldName("type") == nil {
			if err := l.count(right, depth); err != nil {
				return nil, err
			}
			cur = right
			continue
		}

		value, err := l.lower(right, depth+1)
		if err != nil {
			return nil, err
		}
		a.Value = value
		return a, nil
	}
}

func (l *lowerer) attribute(n *sitter.Node, depth int) (*Attribute, error) {
	attr := &Attribute{
		pos:  pos{line: nodeLine(n)},
		Attr: nodeText(n.ChildByFieldName("attribute"), l.code),
	}
	if obj := n.ChildByFieldName("object"); obj != nil {
		value, err := l.lower(obj, depth+1)
		if err != nil {
			return nil, err
		}
		attr.Value = value
	}
	return attr, nil
}

func (l *lowerer) generic(n *sitter.Node, depth int) (*Generic, error) {
	items, err := l.named(n, depth+1)
	if err != nil {
		return nil, err
	}
	return &Generic{pos: pos{line: nodeLine(n)}, Kind: n.Kind(), Items: items}, nil
}
