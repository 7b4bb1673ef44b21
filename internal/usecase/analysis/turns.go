package analysis

import "chess_analyse/internal/domain/analysis"

// PlacedMove is a move together with its fully qualified path.
type PlacedMove struct {
	ID   analysis.MoveID
	Move *analysis.Move
	Path analysis.Path
}

// Turn pairs a white and a black move. Either slot may be nil: White when a
// line starts on Black's move, Black on an odd-length tail.
type Turn struct {
	Number int
	White  *PlacedMove
	Black  *PlacedMove
}

func PlyToTurn(ply int) int {
	return (ply-1)/2 + 1
}

// PairTurns groups a line into turns. prefix locates the line; each move's
// path is prefix.WithPly(move.Ply).
func PairTurns(tree *analysis.Tree, line analysis.LineID, prefix analysis.Path) []Turn {
	ids := tree.Line(line)
	if len(ids) == 0 {
		return nil
	}

	place := func(id analysis.MoveID) *PlacedMove {
		m := tree.Move(id)
		return &PlacedMove{ID: id, Move: m, Path: prefix.WithPly(m.Ply)}
	}

	turns := make([]Turn, 0, len(ids)/2+1)
	i := 0
	if first := tree.Move(ids[0]); first.Ply%2 == 0 {
		turns = append(turns, Turn{Number: PlyToTurn(first.Ply), Black: place(ids[0])})
		i = 1
	}
	for ; i < len(ids); i += 2 {
		white := place(ids[i])
		turn := Turn{Number: PlyToTurn(white.Move.Ply), White: white}
		if i+1 < len(ids) {
			turn.Black = place(ids[i+1])
		}
		turns = append(turns, turn)
	}
	return turns
}
