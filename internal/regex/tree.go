package regex

import (
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/refa/internal/util"
)

// Node is a node of a pattern's syntax tree. Literals are leaves, unary
// operators have only Left, and binary operators have both Left and Right.
type Node struct {
	Token Token
	Left  *Node
	Right *Node
}

// BuildTree assembles the syntax tree of a postfix sequence. An empty
// sequence gives a nil tree. An operator without enough operands, or operands
// left over at the end, gives an error that matches ErrMalformed.
func BuildTree(postfix Postfix) (*Node, error) {
	var stack util.Stack[*Node]

	for _, tok := range postfix {
		node := &Node{Token: tok}

		switch {
		case tok.Kind == Literal:
		case tok.Kind.Unary():
			if stack.Empty() {
				return nil, fmt.Errorf("%w: %q at position %d is missing an operand", ErrMalformed, tok.String(), tok.Pos)
			}
			node.Left = stack.Pop()
		case tok.Kind.Binary():
			if stack.Len() < 2 {
				return nil, fmt.Errorf("%w: %q at position %d is missing an operand", ErrMalformed, tok.String(), tok.Pos)
			}
			node.Right = stack.Pop()
			node.Left = stack.Pop()
		default:
			return nil, fmt.Errorf("%w: %s token at position %d cannot appear in postfix", ErrMalformed, tok.Kind, tok.Pos)
		}

		stack.Push(node)
	}

	switch stack.Len() {
	case 0:
		return nil, nil
	case 1:
		return stack.Pop(), nil
	default:
		return nil, fmt.Errorf("%w: %d operands are not joined by any operator", ErrMalformed, stack.Len())
	}
}

// Postfix flattens the tree back into postfix by visiting it in post-order,
// left before right. A nil tree gives an empty sequence.
func (n *Node) Postfix() Postfix {
	if n == nil {
		return nil
	}

	var out Postfix
	out = append(out, n.Left.Postfix()...)
	out = append(out, n.Right.Postfix()...)
	out = append(out, n.Token)
	return out
}

// Children returns the non-nil children of n, left first.
func (n *Node) Children() []*Node {
	var children []*Node
	if n.Left != nil {
		children = append(children, n.Left)
	}
	if n.Right != nil {
		children = append(children, n.Right)
	}
	return children
}

// Render writes the tree to w as indented text, one node per line.
func (n *Node) Render(w io.Writer) error {
	_, err := io.WriteString(w, n.String())
	return err
}

// String gives the tree as indented text, one node per line, with children
// connected to their parent by box-drawing characters:
//
//	└─|
//	  ├─.
//	  │ ├─a
//	  │ └─b
//	  └─*
//	    └─c
func (n *Node) String() string {
	if n == nil {
		return ""
	}

	var sb strings.Builder
	n.writeTo(&sb, "", true)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder, indent string, last bool) {
	sb.WriteString(indent)
	if last {
		sb.WriteString("└─")
		indent += "  "
	} else {
		sb.WriteString("├─")
		indent += "│ "
	}
	sb.WriteString(n.Token.String())
	sb.WriteRune('\n')

	children := n.Children()
	for i, child := range children {
		child.writeTo(sb, indent, i == len(children)-1)
	}
}
