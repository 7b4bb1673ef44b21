package analysis

import (
	"fmt"
	"strings"
)

// RenderText prints presentation nodes as a plain two-column move list.
// The active move is wrapped in brackets.
func RenderText(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		writeBlockNode(&sb, n, "")
	}
	return sb.String()
}

func writeBlockNode(sb *strings.Builder, n Node, indent string) {
	switch v := n.(type) {
	case TurnNode:
		fmt.Fprintf(sb, "%s%-4s %-14s %s\n", indent, v.Label, cell(v.White), cell(v.Black))
	case VariationBlockNode:
		marker := "  "
		if v.Border {
			marker = "| "
		}
		fmt.Fprintf(sb, "%s%s%s\n", indent, marker, inline(v.Children))
	case AnnotationNode:
		if v.Type == AnnotationOpening {
			fmt.Fprintf(sb, "%s  [%s]\n", indent, v.Text)
		} else {
			fmt.Fprintf(sb, "%s  {%s}\n", indent, v.Text)
		}
	case ResultNode:
		fmt.Fprintf(sb, "%s%s\n%s%s\n", indent, v.Result, indent, v.Status)
	case MoveNode, EmptyMoveNode, VariationInlineNode:
		fmt.Fprintf(sb, "%s%s\n", indent, inline([]Node{v}))
	}
}

func cell(n Node) string {
	switch v := n.(type) {
	case MoveNode:
		return moveText(v)
	case EmptyMoveNode:
		return "..."
	}
	return ""
}

func moveText(m MoveNode) string {
	text := m.SAN
	if m.Eval != "" {
		text = m.Eval + " " + text
	}
	if m.Active {
		text = "[" + text + "]"
	}
	return text
}

func inline(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case TurnNode:
			var row []string
			if v.Label != "" {
				row = append(row, v.Label)
			}
			if s := cell(v.White); s != "" {
				row = append(row, s)
			}
			if s := cell(v.Black); s != "" {
				row = append(row, s)
			}
			parts = append(parts, strings.Join(row, " "))
		case VariationInlineNode:
			parts = append(parts, "("+inline(v.Children)+")")
		case MoveNode:
			parts = append(parts, moveText(v))
		case EmptyMoveNode:
			parts = append(parts, "...")
		case AnnotationNode:
			parts = append(parts, "{"+v.Text+"}")
		case VariationBlockNode:
			parts = append(parts, inline(v.Children))
		case ResultNode:
			parts = append(parts, v.Result)
		}
	}
	return strings.Join(parts, " ")
}
