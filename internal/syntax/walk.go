package syntax

import "github.com/rohankatakam/csmell/internal/limits"

// VisitFunc is called once per node. depth is 0 for the root.
type VisitFunc func(n Node, depth int) error

type frame struct {
	node  Node
	depth int
}

// Walk visits every node under root exactly once in pre-order, parent before
// children, children in source order. It uses an explicit stack and fails
// with *limits.ExceededError when the tree is deeper or larger than allowed.
// An error returned by visit stops the walk and is returned as is.
func Walk(root Node, l limits.Limits, visit VisitFunc) error {
	if root == nil {
		return nil
	}

	stack := []frame{{node: root}}
	visited := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		line := f.node.Line()
		if err := limits.Check(limits.ResourceNodes, visited, l.MaxNodes, line); err != nil {
			return err
		}
		if err := limits.Check(limits.ResourceDepth, f.depth, l.MaxDepth, line); err != nil {
			return err
		}
		if err := visit(f.node, f.depth); err != nil {
			return err
		}

		children := f.node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, frame{node: children[i], depth: f.depth + 1})
			}
		}
	}
	return nil
}
