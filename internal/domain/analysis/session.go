package analysis

import "time"

// Analysis is the stored form of one analysis session.
type Analysis struct {
	ID        string    `json:"id" bson:"_id"`
	Tree      TreeData  `json:"tree" bson:"tree"`
	Source    string    `json:"source,omitempty" bson:"source,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// AnalysisSummary is one row of the recent analyses list.
type AnalysisSummary struct {
	ID        string     `json:"id"`
	Source    string     `json:"source,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Moves     int        `json:"moves"`
	Opening   *Opening   `json:"opening,omitempty"`
	Status    GameStatus `json:"status"`
}

type CreateAnalysisRequest struct {
	PGN  string    `json:"pgn,omitempty"`
	Tree *TreeData `json:"tree,omitempty"`
}

type CreateAnalysisResponse struct {
	ID string `json:"id"`
}

type JumpRequest struct {
	Path string `json:"path"`
}

type WheelRequest struct {
	DeltaY float64 `json:"delta_y"`
}
