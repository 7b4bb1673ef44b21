package analysis

// Status ids follow the game server's numbering; everything from
// StatusMate up means the game is over.
const (
	StatusCreated       = 10
	StatusStarted       = 20
	StatusAborted       = 25
	StatusMate          = 30
	StatusResign        = 31
	StatusStalemate     = 32
	StatusTimeout       = 33
	StatusDraw          = 34
	StatusOutOfTime     = 35
	StatusUnknownFinish = 38
)

const (
	ColorWhite = "white"
	ColorBlack = "black"
)

type GameStatus struct {
	ID     int    `json:"id" bson:"id" yaml:"id"`
	Name   string `json:"name" bson:"name" yaml:"name"`
	Winner string `json:"winner,omitempty" bson:"winner,omitempty" yaml:"winner,omitempty"`
}

func (s GameStatus) Finished() bool {
	return s.ID >= StatusMate
}
