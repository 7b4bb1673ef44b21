package analysis

import (
	"testing"

	"chess_analyse/internal/domain/analysis"
)

func TestFormatEval(t *testing.T) {
	tests := map[int]string{
		125:  "+12.5",
		-30:  "-3.0",
		0:    "+0.0",
		7:    "+0.7",
		-301: "-30.1",
	}
	for cp, want := range tests {
		if got := FormatEval(cp); got != want {
			t.Errorf("FormatEval(%d) = %q, want %q", cp, got, want)
		}
	}
}

func TestFormatMoveAnnotation(t *testing.T) {
	if got := FormatMoveAnnotation(&analysis.Move{Mate: intp(3)}); got != "#3" {
		t.Errorf("mate annotation = %q, want #3", got)
	}
	if got := FormatMoveAnnotation(&analysis.Move{Mate: intp(-2)}); got != "#-2" {
		t.Errorf("mate annotation = %q, want #-2", got)
	}
	if got := FormatMoveAnnotation(&analysis.Move{Eval: intp(125)}); got != "+12.5" {
		t.Errorf("eval annotation = %q, want +12.5", got)
	}
	if got := FormatMoveAnnotation(&analysis.Move{SAN: "e4"}); got != "" {
		t.Errorf("bare move annotation = %q, want empty", got)
	}
	if got := FormatMoveAnnotation(nil); got != "" {
		t.Errorf("nil move annotation = %q, want empty", got)
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		status analysis.GameStatus
		result string
		text   string
	}{
		{
			status: analysis.GameStatus{ID: analysis.StatusMate, Name: "Checkmate", Winner: analysis.ColorBlack},
			result: "0-1",
			text:   "Checkmate, Black is victorious",
		},
		{
			status: analysis.GameStatus{ID: analysis.StatusResign, Name: "Resignation", Winner: analysis.ColorWhite},
			result: "1-0",
			text:   "Resignation, White is victorious",
		},
		{
			status: analysis.GameStatus{ID: analysis.StatusDraw, Name: "Draw"},
			result: "½-½",
			text:   "Draw",
		},
		{
			status: analysis.GameStatus{ID: analysis.StatusStarted, Name: "Playing"},
			result: "",
			text:   "Playing",
		},
	}
	for _, tt := range tests {
		if got := FormatResult(tt.status); got != tt.result {
			t.Errorf("FormatResult(%d) = %q, want %q", tt.status.ID, got, tt.result)
		}
		if got := FormatStatus(tt.status); got != tt.text {
			t.Errorf("FormatStatus(%d) = %q, want %q", tt.status.ID, got, tt.text)
		}
	}
}

func TestFormatOpening(t *testing.T) {
	got := FormatOpening(analysis.Opening{Code: "B20", Name: "Sicilian Defense", Size: 2})
	if got != "B20: Sicilian Defense" {
		t.Errorf("FormatOpening = %q", got)
	}
}
