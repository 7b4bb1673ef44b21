package analysis

import (
	"fmt"
	"strconv"

	"chess_analyse/internal/domain/analysis"
)

// FormatEval shows a stored evaluation with one decimal and an explicit sign:
// 125 -> "+12.5", -30 -> "-3.0", 0 -> "+0.0".
func FormatEval(cp int) string {
	return fmt.Sprintf("%+.1f", float64(cp)/10)
}

func FormatMate(n int) string {
	return "#" + strconv.Itoa(n)
}

// FormatMoveAnnotation returns the eval or mate token of a move, "" when it
// carries neither.
func FormatMoveAnnotation(m *analysis.Move) string {
	switch {
	case m == nil:
		return ""
	case m.Eval != nil:
		return FormatEval(*m.Eval)
	case m.Mate != nil:
		return FormatMate(*m.Mate)
	}
	return ""
}

func FormatOpening(o analysis.Opening) string {
	return o.Code + ": " + o.Name
}

// FormatResult returns the score line for a finished game, "" otherwise.
func FormatResult(s analysis.GameStatus) string {
	if !s.Finished() {
		return ""
	}
	switch s.Winner {
	case analysis.ColorWhite:
		return "1-0"
	case analysis.ColorBlack:
		return "0-1"
	}
	return "½-½"
}

// FormatStatus is the status text under the result, with the winner appended.
func FormatStatus(s analysis.GameStatus) string {
	text := s.Name
	switch s.Winner {
	case analysis.ColorWhite:
		text += ", White is victorious"
	case analysis.ColorBlack:
		text += ", Black is victorious"
	}
	return text
}
