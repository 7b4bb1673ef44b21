package analysis

import (
	"testing"

	"chess_analyse/internal/domain/analysis"
)

func intp(v int) *int {
	return &v
}

// 1. e4 e5 (1... c5 2. Nf3 d6 (2... Nc6 3. d4)) 2. Nf3 {Main line} (2. Bc4 Nf6)
// 2... Nc6 3. Bb5, Ruy Lopez after ply 5, white wins by resignation.
func ruyLopezData() analysis.TreeData {
	return analysis.TreeData{
		Mainline: []analysis.MoveData{
			{Ply: 1, SAN: "e4", Eval: intp(20)},
			{Ply: 2, SAN: "e5", Variations: [][]analysis.MoveData{{
				{Ply: 2, SAN: "c5"},
				{Ply: 3, SAN: "Nf3"},
				{Ply: 4, SAN: "d6", Variations: [][]analysis.MoveData{{
					{Ply: 4, SAN: "Nc6"},
					{Ply: 5, SAN: "d4"},
				}}},
			}}},
			{Ply: 3, SAN: "Nf3", Comments: []string{"Main line"}, Variations: [][]analysis.MoveData{{
				{Ply: 3, SAN: "Bc4"},
				{Ply: 4, SAN: "Nf6"},
			}}},
			{Ply: 4, SAN: "Nc6"},
			{Ply: 5, SAN: "Bb5", Eval: intp(-30)},
		},
		Opening: &analysis.Opening{Code: "C60", Name: "Ruy Lopez", Size: 5},
		Status: analysis.GameStatus{
			ID:     analysis.StatusResign,
			Name:   "Resignation",
			Winner: analysis.ColorWhite,
		},
	}
}

func ruyLopezTree(t *testing.T) *analysis.Tree {
	t.Helper()
	tree, err := analysis.NewTree(ruyLopezData())
	if err != nil {
		t.Fatalf("NewTree failed: %v", err)
	}
	return tree
}

func mustPath(t *testing.T, token string) analysis.Path {
	t.Helper()
	p, err := analysis.DecodePath(token)
	if err != nil {
		t.Fatalf("DecodePath(%q) failed: %v", token, err)
	}
	return p
}

// allTokens collects the token of every move node in render order.
func allTokens(nodes []Node) []string {
	var out []string
	var walk func(n Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case MoveNode:
			out = append(out, v.Token)
		case TurnNode:
			if v.White != nil {
				walk(v.White)
			}
			if v.Black != nil {
				walk(v.Black)
			}
		case VariationBlockNode:
			for _, c := range v.Children {
				walk(c)
			}
		case VariationInlineNode:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}
