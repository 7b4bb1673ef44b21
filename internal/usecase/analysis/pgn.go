package analysis

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"github.com/notnil/chess/opening"

	"chess_analyse/internal/domain/analysis"
	errs "chess_analyse/internal/errors"
)

var ecoBook = opening.NewBookECO()

var (
	notation = chess.AlgebraicNotation{}
	evalRe   = regexp.MustCompile(`\[%eval\s+([^\]\s]+)\s*\]`)
)

// ImportPGN reads the first game of a PGN into tree data: the mainline in SAN
// with its comments and nested variations, [%eval] annotations, the ECO
// classification and the game status. Every move, variations included, must
// be legal in its position.
func ImportPGN(r io.Reader) (analysis.TreeData, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return analysis.TreeData{}, fmt.Errorf("%w: %v", errs.ErrInvalidPGN, err)
	}
	raw, result, err := parseMovetext(string(src))
	if err != nil {
		return analysis.TreeData{}, fmt.Errorf("%w: %v", errs.ErrInvalidPGN, err)
	}

	game := chess.NewGame()
	mainline, moves, err := buildLine(game.Position(), raw, 1)
	if err != nil {
		return analysis.TreeData{}, fmt.Errorf("%w: %v", errs.ErrInvalidPGN, err)
	}
	for _, m := range moves {
		if err = game.Move(m); err != nil {
			return analysis.TreeData{}, fmt.Errorf("%w: %v", errs.ErrInvalidPGN, err)
		}
	}

	data := analysis.TreeData{Mainline: mainline}
	if o := ecoBook.Find(moves); o != nil {
		data.Opening = &analysis.Opening{
			Code: o.Code(),
			Name: o.Title(),
			Size: len(o.Game().Moves()),
		}
	}

	outcome, method := game.Outcome(), game.Method()
	if outcome == chess.NoOutcome {
		outcome, method = chess.Outcome(result), chess.NoMethod
	}
	data.Status = statusOf(outcome, method)
	return data, nil
}

// buildLine checks a line move by move starting at pos. Variations of a move
// are alternatives to it, so they start from the same position and ply.
func buildLine(pos *chess.Position, line []rawMove, ply int) ([]analysis.MoveData, []*chess.Move, error) {
	out := make([]analysis.MoveData, 0, len(line))
	played := make([]*chess.Move, 0, len(line))
	for _, rm := range line {
		m, err := notation.Decode(pos, rm.san)
		if err != nil {
			return nil, nil, fmt.Errorf("ply %d: %w", ply, err)
		}
		md := analysis.MoveData{Ply: ply, SAN: notation.Encode(pos, m)}
		for _, c := range rm.comments {
			if c = takeEval(c, &md); c != "" {
				md.Comments = append(md.Comments, c)
			}
		}
		for _, v := range rm.variations {
			vd, _, err := buildLine(pos, v, ply)
			if err != nil {
				return nil, nil, err
			}
			md.Variations = append(md.Variations, vd)
		}

		out = append(out, md)
		played = append(played, m)
		pos = pos.Update(m)
		ply++
	}
	return out, played, nil
}

// takeEval moves a [%eval] command from the comment onto the move and returns
// what is left of the comment. Pawn scores are kept in tenths, the unit
// FormatEval shows. Only the first annotation of a move counts.
func takeEval(comment string, md *analysis.MoveData) string {
	match := evalRe.FindStringSubmatchIndex(comment)
	if match == nil {
		return comment
	}
	value := comment[match[2]:match[3]]
	if md.Eval == nil && md.Mate == nil {
		if mate, ok := strings.CutPrefix(value, "#"); ok {
			n, err := strconv.Atoi(mate)
			if err != nil {
				return comment
			}
			md.Mate = &n
		} else {
			pawns, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return comment
			}
			cp := int(math.Round(pawns * 10))
			md.Eval = &cp
		}
	}
	return strings.TrimSpace(comment[:match[0]] + comment[match[1]:])
}

func statusOf(outcome chess.Outcome, method chess.Method) analysis.GameStatus {
	var status analysis.GameStatus
	switch outcome {
	case chess.NoOutcome:
		return analysis.GameStatus{ID: analysis.StatusStarted, Name: "Playing"}
	case chess.WhiteWon:
		status.Winner = analysis.ColorWhite
	case chess.BlackWon:
		status.Winner = analysis.ColorBlack
	}

	switch method {
	case chess.Checkmate:
		status.ID, status.Name = analysis.StatusMate, "Checkmate"
	case chess.Resignation:
		status.ID, status.Name = analysis.StatusResign, "Resignation"
	case chess.Stalemate:
		status.ID, status.Name = analysis.StatusStalemate, "Stalemate"
	case chess.DrawOffer, chess.ThreefoldRepetition, chess.FivefoldRepetition,
		chess.FiftyMoveRule, chess.SeventyFiveMoveRule, chess.InsufficientMaterial:
		status.ID, status.Name = analysis.StatusDraw, "Draw"
	default:
		status.ID, status.Name = analysis.StatusUnknownFinish, "Finished"
	}
	return status
}

// ExportPGN writes the tree as PGN movetext with comments and nested
// variations.
func ExportPGN(tree *analysis.Tree) string {
	var sb strings.Builder
	if o := tree.Opening(); o != nil {
		fmt.Fprintf(&sb, "[ECO \"%s\"]\n[Opening \"%s\"]\n", o.Code, o.Name)
	}
	result := pgnResult(tree.Status())
	fmt.Fprintf(&sb, "[Result \"%s\"]\n\n", result)

	writeLine(&sb, tree, analysis.Mainline)
	if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteByte(' ')
	}
	sb.WriteString(result)
	return sb.String()
}

func writeLine(sb *strings.Builder, tree *analysis.Tree, line analysis.LineID) {
	needNumber := true
	for i, id := range tree.Line(line) {
		m := tree.Move(id)
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case m.Ply%2 == 1:
			fmt.Fprintf(sb, "%d. ", PlyToTurn(m.Ply))
		case needNumber:
			fmt.Fprintf(sb, "%d... ", PlyToTurn(m.Ply))
		}
		sb.WriteString(m.SAN)
		needNumber = false

		if eval := pgnEval(m); eval != "" {
			fmt.Fprintf(sb, " {[%%eval %s]}", eval)
			needNumber = true
		}

		for _, c := range m.Comments {
			fmt.Fprintf(sb, " {%s}", c)
			needNumber = true
		}
		for _, v := range m.Variations {
			sb.WriteString(" (")
			writeLine(sb, tree, v)
			sb.WriteString(")")
			needNumber = true
		}
	}
}

// pgnEval is the [%eval] value of a move: pawns for a score, #N for a mate.
func pgnEval(m *analysis.Move) string {
	switch {
	case m.Eval != nil:
		return strconv.FormatFloat(float64(*m.Eval)/10, 'f', 1, 64)
	case m.Mate != nil:
		return FormatMate(*m.Mate)
	}
	return ""
}

func pgnResult(s analysis.GameStatus) string {
	switch r := FormatResult(s); r {
	case "":
		return "*"
	case "½-½":
		return "1/2-1/2"
	default:
		return r
	}
}
