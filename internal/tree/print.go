package tree

import "strings"

const (
	indentBranch = " |      "
	indentBlank  = "        "
)

// Print renders the tree sideways, the root on the left:
// right subtrees above their parent, left subtrees below it.
// Absent payloads are printed as <null>.
func Print(n *Node) string {
	if n.IsNil() {
		return ""
	}

	var sb strings.Builder

	if !n.Right().IsNil() {
		printNode(&sb, n.Right(), true, "")
	}
	sb.WriteString(payloadString(n.payload))
	sb.WriteByte('\n')
	if !n.Left().IsNil() {
		printNode(&sb, n.Left(), false, "")
	}

	return sb.String()
}

func printNode(sb *strings.Builder, n *Node, isRight bool, indent string) {
	if !n.Right().IsNil() {
		next := indentBranch
		if isRight {
			next = indentBlank
		}
		printNode(sb, n.Right(), true, indent+next)
	}

	sb.WriteString(indent)
	if isRight {
		sb.WriteString(" /")
	} else {
		sb.WriteString(" \\")
	}
	sb.WriteString("----- ")
	sb.WriteString(payloadString(n.payload))
	sb.WriteByte('\n')

	if !n.Left().IsNil() {
		next := indentBlank
		if isRight {
			next = indentBranch
		}
		printNode(sb, n.Left(), false, indent+next)
	}
}
