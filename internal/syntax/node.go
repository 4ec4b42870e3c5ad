// Package syntax parses Python source into a small, closed set of node types.
//
// The tree is produced by tree-sitter and lowered into the types below. Only
// the constructs the analyzer reasons about get their own type; everything
// else becomes a Generic node that keeps its children so traversal still
// reaches nested definitions.
package syntax

// Node is implemented only by the node types in this package
type Node interface {
	// Line is the 1-based source line of the node
	Line() int
	// Children returns the direct child nodes in source order
	Children() []Node

	sealed()
}

// LoopKind distinguishes for and while loops
type LoopKind int

const (
	LoopFor LoopKind = iota
	LoopWhile
)

func (k LoopKind) String() string {
	if k == LoopWhile {
		return "while"
	}
	return "for"
}

type pos struct {
	line int
}

func (p pos) Line() int { return p.line }

// Module is the root of every parsed tree
type Module struct {
	pos
	Body []Node
}

// FunctionDef is a def statement. Decorated definitions are unwrapped into
// their FunctionDef with Decorators filled.
type FunctionDef struct {
	pos
	Name       string
	Async      bool
	Decorators []Node
	Params     []Node
	Body       []Node
}

// ClassDef is a class statement
type ClassDef struct {
	pos
	Name       string
	Decorators []Node
	Bases      []Node
	Body       []Node
}

// Loop is a for or while statement. Else holds the loop's else block, which
// is not part of Body.
type Loop struct {
	pos
	Kind   LoopKind
	Async  bool
	Header []Node // target and iterable for a for loop, condition for a while loop
	Body   []Node
	Else   []Node
}

// Assign is a plain assignment. Chained assignments (a = b = c) carry one
// target per link.
type Assign struct {
	pos
	Targets []Node
	Value   Node
}

// Attribute is an attribute access such as obj.attr
type Attribute struct {
	pos
	Value Node
	Attr  string
}

// Name is a bare identifier
type Name struct {
	pos
	ID string
}

// Generic is any construct without a dedicated type. Kind is the grammar's
// node type (e.g. "if_statement", "call").
type Generic struct {
	pos
	Kind  string
	Items []Node
}

func (*Module) sealed()      {}
func (*FunctionDef) sealed() {}
func (*ClassDef) sealed()    {}
func (*Loop) sealed()        {}
func (*Assign) sealed()      {}
func (*Attribute) sealed()   {}
func (*Name) sealed()        {}
func (*Generic) sealed()     {}

func (n *Module) Children() []Node { return n.Body }

func (n *FunctionDef) Children() []Node {
	return concat(n.Decorators, n.Params, n.Body)
}

func (n *ClassDef) Children() []Node {
	return concat(n.Decorators, n.Bases, n.Body)
}

func (n *Loop) Children() []Node {
	return concat(n.Header, n.Body, n.Else)
}

func (n *Assign) Children() []Node {
	if n.Value == nil {
		return n.Targets
	}
	return concat(n.Targets, []Node{n.Value})
}

func (n *Attribute) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}

func (n *Name) Children() []Node { return nil }

func (n *Generic) Children() []Node { return n.Items }

func concat(parts ...[]Node) []Node {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if total == 0 {
		return nil
	}
	out := make([]Node, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Kind returns a short name for the node's type, used in debug output
func Kind(n Node) string {
	switch n := n.(type) {
	case *Module:
		return "module"
	case *FunctionDef:
		return "function_definition"
	case *ClassDef:
		return "class_definition"
	case *Loop:
		return n.Kind.String() + "_statement"
	case *Assign:
		return "assignment"
	case *Attribute:
		return "attribute"
	case *Name:
		return "identifier"
	case *Generic:
		return n.Kind
	default:
		return "unknown"
	}
}
