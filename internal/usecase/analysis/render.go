package analysis

import (
	"strconv"

	"chess_analyse/internal/domain/analysis"
)

type NodeKind string

const (
	KindMove            NodeKind = "move"
	KindEmptyMove       NodeKind = "empty"
	KindTurn            NodeKind = "turn"
	KindVariationBlock  NodeKind = "variation"
	KindVariationInline NodeKind = "variation_inline"
	KindAnnotation      NodeKind = "annotation"
	KindResult          NodeKind = "result"
)

// Node is a presentation node. The set of implementations is closed; switch
// on the concrete type.
type Node interface {
	Kind() NodeKind
	node()
}

type MoveNode struct {
	Token  string
	Href   string
	Ply    int
	SAN    string
	Eval   string
	Active bool
}

// EmptyMoveNode fills a column of a two-column turn that has no move.
type EmptyMoveNode struct{}

// TurnNode is one row. In the mainline both slots are set (EmptyMoveNode for
// a missing move). Inside variations a nil slot means nothing is printed
// there and an empty Label continues the previous turn.
type TurnNode struct {
	Number int
	Label  string
	White  Node
	Black  Node
}

type VariationBlockNode struct {
	Token    string
	Border   bool
	Children []Node
}

type VariationInlineNode struct {
	Token    string
	Children []Node
}

type AnnotationKind string

const (
	AnnotationComment AnnotationKind = "comment"
	AnnotationOpening AnnotationKind = "opening"
)

type AnnotationNode struct {
	Type AnnotationKind
	Text string
}

type ResultNode struct {
	Result string
	Status string
}

func (MoveNode) Kind() NodeKind            { return KindMove }
func (EmptyMoveNode) Kind() NodeKind       { return KindEmptyMove }
func (TurnNode) Kind() NodeKind            { return KindTurn }
func (VariationBlockNode) Kind() NodeKind  { return KindVariationBlock }
func (VariationInlineNode) Kind() NodeKind { return KindVariationInline }
func (AnnotationNode) Kind() NodeKind      { return KindAnnotation }
func (ResultNode) Kind() NodeKind          { return KindResult }

func (MoveNode) node()            {}
func (EmptyMoveNode) node()       {}
func (TurnNode) node()            {}
func (VariationBlockNode) node()  {}
func (VariationInlineNode) node() {}
func (AnnotationNode) node()      {}
func (ResultNode) node()          {}

type RenderOptions struct {
	ShowComments bool
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{ShowComments: true}
}

type renderer struct {
	tree   *analysis.Tree
	cursor string
	opts   RenderOptions
}

// Render builds the move list for tree with the move at cursor marked active.
// It has no side effects.
func Render(tree *analysis.Tree, cursor analysis.Path, opts RenderOptions) []Node {
	r := renderer{tree: tree, cursor: cursor.Encode(), opts: opts}

	var out []Node
	for _, turn := range PairTurns(tree, analysis.Mainline, analysis.RootPath()) {
		out = append(out, r.mainlineTurn(turn)...)
	}

	status := tree.Status()
	if result := FormatResult(status); result != "" {
		out = append(out, ResultNode{Result: result, Status: FormatStatus(status)})
	}
	return out
}

func (r renderer) move(pm *PlacedMove) Node {
	if pm == nil {
		return EmptyMoveNode{}
	}
	token := pm.Path.Encode()
	return MoveNode{
		Token:  token,
		Href:   "#" + strconv.Itoa(pm.Path[0].Ply),
		Ply:    pm.Move.Ply,
		SAN:    pm.Move.SAN,
		Eval:   FormatMoveAnnotation(pm.Move),
		Active: token == r.cursor,
	}
}

func (r renderer) mainlineTurn(turn Turn) []Node {
	label := strconv.Itoa(turn.Number)
	white, black := r.move(turn.White), r.move(turn.Black)
	whiteMeta := r.meta(turn.White)
	blackMeta := r.meta(turn.Black)

	var out []Node
	if turn.White != nil && len(whiteMeta) > 0 {
		out = append(out, TurnNode{Number: turn.Number, Label: label, White: white, Black: EmptyMoveNode{}})
		out = append(out, whiteMeta...)
		if turn.Black != nil {
			out = append(out, TurnNode{Number: turn.Number, Label: label, White: EmptyMoveNode{}, Black: black})
		}
	} else {
		out = append(out, TurnNode{Number: turn.Number, Label: label, White: white, Black: black})
	}
	return append(out, blackMeta...)
}

// meta renders what hangs under a mainline move: the opening label, comments
// and the move's variations as blocks. Only the first block can get a border
// and only when no opening or comment was rendered before it.
func (r renderer) meta(pm *PlacedMove) []Node {
	if !r.opts.ShowComments || pm == nil {
		return nil
	}

	var out []Node
	if o := r.tree.Opening(); o != nil && o.Size == pm.Move.Ply {
		out = append(out, AnnotationNode{Type: AnnotationOpening, Text: FormatOpening(*o)})
	}
	for _, c := range pm.Move.Comments {
		out = append(out, AnnotationNode{Type: AnnotationComment, Text: c})
	}

	border := len(out) == 0
	for i, line := range pm.Move.Variations {
		path := pm.Path.WithVariation(i + 1)
		out = append(out, VariationBlockNode{
			Token:    path.Encode(),
			Border:   border,
			Children: r.variationContent(line, path),
		})
		border = false
	}
	return out
}

func (r renderer) variationContent(line analysis.LineID, prefix analysis.Path) []Node {
	var out []Node
	for _, turn := range PairTurns(r.tree, line, prefix) {
		if turn.White == nil {
			out = append(out, TurnNode{Number: turn.Number, Label: strconv.Itoa(turn.Number) + "...", Black: r.move(turn.Black)})
			out = append(out, r.nested(turn.Black)...)
			continue
		}

		row := TurnNode{Number: turn.Number, Label: strconv.Itoa(turn.Number) + ".", White: r.move(turn.White)}
		whiteNested := r.nested(turn.White)
		if len(whiteNested) > 0 {
			out = append(out, row)
			out = append(out, whiteNested...)
			row = TurnNode{Number: turn.Number}
		}
		if turn.Black != nil {
			row.Black = r.move(turn.Black)
		}
		if row.White != nil || row.Black != nil {
			out = append(out, row)
		}
		out = append(out, r.nested(turn.Black)...)
	}
	return out
}

// nested renders the variations of a move that is itself inside a variation.
func (r renderer) nested(pm *PlacedMove) []Node {
	if pm == nil {
		return nil
	}
	out := make([]Node, 0, len(pm.Move.Variations))
	for i, line := range pm.Move.Variations {
		path := pm.Path.WithVariation(i + 1)
		out = append(out, VariationInlineNode{
			Token:    path.Encode(),
			Children: r.variationContent(line, path),
		})
	}
	return out
}
