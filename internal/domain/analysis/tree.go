package analysis

import (
	"fmt"

	"github.com/google/uuid"

	errs "chess_analyse/internal/errors"
)

type MoveID int

type LineID int

const (
	NoMove   MoveID = -1
	Mainline LineID = 0
)

// Move is one ply of the tree. Eval (centipawns) and Mate are exclusive.
type Move struct {
	Ply        int
	SAN        string
	Eval       *int
	Mate       *int
	Comments   []string
	Variations []LineID
}

func (m *Move) HasVariations() bool {
	return len(m.Variations) > 0
}

func (m *Move) HasComments() bool {
	return len(m.Comments) > 0
}

// Opening is the classification of the game's opening; Size is the ply at
// which the book line ends.
type Opening struct {
	Code string `json:"eco" bson:"eco" yaml:"eco"`
	Name string `json:"name" bson:"name" yaml:"name"`
	Size int    `json:"ply" bson:"ply" yaml:"ply"`
}

// Tree is an immutable arena: moves and lines reference each other by index.
// Line 0 is the mainline.
type Tree struct {
	moves   []Move
	lines   [][]MoveID
	opening *Opening
	status  GameStatus
	version string
}

// MoveData is the nested form trees arrive in from game data and storage.
type MoveData struct {
	Ply        int          `json:"ply" bson:"ply" yaml:"ply"`
	SAN        string       `json:"san" bson:"san" yaml:"san"`
	Eval       *int         `json:"eval,omitempty" bson:"eval,omitempty" yaml:"eval,omitempty"`
	Mate       *int         `json:"mate,omitempty" bson:"mate,omitempty" yaml:"mate,omitempty"`
	Comments   []string     `json:"comments,omitempty" bson:"comments,omitempty" yaml:"comments,omitempty"`
	Variations [][]MoveData `json:"variations,omitempty" bson:"variations,omitempty" yaml:"variations,omitempty"`
}

type TreeData struct {
	Mainline []MoveData `json:"mainline" bson:"mainline" yaml:"mainline"`
	Opening  *Opening   `json:"opening,omitempty" bson:"opening,omitempty" yaml:"opening,omitempty"`
	Status   GameStatus `json:"status" bson:"status" yaml:"status"`
}

// NewTree flattens data into an arena and checks the ply invariants.
func NewTree(data TreeData) (*Tree, error) {
	t := &Tree{
		lines:   [][]MoveID{nil},
		opening: data.Opening,
		status:  data.Status,
		version: uuid.New().String(),
	}
	if len(data.Mainline) > 0 && data.Mainline[0].Ply != 1 {
		return nil, fmt.Errorf("%w: mainline starts at ply %d", errs.ErrInvalidTree, data.Mainline[0].Ply)
	}
	if err := t.addLine(Mainline, data.Mainline); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) addLine(line LineID, moves []MoveData) error {
	for i, md := range moves {
		if md.Ply < 1 {
			return fmt.Errorf("%w: ply %d", errs.ErrInvalidTree, md.Ply)
		}
		if i > 0 && md.Ply != moves[i-1].Ply+1 {
			return fmt.Errorf("%w: ply %d follows %d", errs.ErrInvalidTree, md.Ply, moves[i-1].Ply)
		}
		if md.Eval != nil && md.Mate != nil {
			return fmt.Errorf("%w: ply %d has both eval and mate", errs.ErrInvalidTree, md.Ply)
		}

		id := MoveID(len(t.moves))
		t.moves = append(t.moves, Move{
			Ply:      md.Ply,
			SAN:      md.SAN,
			Eval:     md.Eval,
			Mate:     md.Mate,
			Comments: md.Comments,
		})
		t.lines[line] = append(t.lines[line], id)

		for _, variation := range md.Variations {
			if len(variation) == 0 {
				return fmt.Errorf("%w: empty variation at ply %d", errs.ErrInvalidTree, md.Ply)
			}
			if variation[0].Ply != md.Ply {
				return fmt.Errorf("%w: variation at ply %d starts at ply %d", errs.ErrInvalidTree, md.Ply, variation[0].Ply)
			}
			child := LineID(len(t.lines))
			t.lines = append(t.lines, nil)
			t.moves[id].Variations = append(t.moves[id].Variations, child)
			if err := t.addLine(child, variation); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Tree) Move(id MoveID) *Move {
	if id < 0 || int(id) >= len(t.moves) {
		return nil
	}
	return &t.moves[id]
}

func (t *Tree) Line(id LineID) []MoveID {
	if id < 0 || int(id) >= len(t.lines) {
		return nil
	}
	return t.lines[id]
}

func (t *Tree) IsEmpty() bool {
	return len(t.lines[Mainline]) == 0
}

func (t *Tree) Opening() *Opening {
	return t.opening
}

func (t *Tree) Status() GameStatus {
	return t.status
}

// Version identifies this build of the tree; a rebuilt tree gets a new one.
func (t *Tree) Version() string {
	return t.version
}

// moveAt finds the move with the given ply on a line.
func (t *Tree) moveAt(line LineID, ply int) (MoveID, bool) {
	ids := t.Line(line)
	if len(ids) == 0 {
		return NoMove, false
	}
	idx := ply - t.moves[ids[0]].Ply
	if idx < 0 || idx >= len(ids) {
		return NoMove, false
	}
	return ids[idx], true
}

// Resolve walks p through the tree. lines[i] is the branch segment i sits on.
// The root path resolves to NoMove with no lines.
func (t *Tree) Resolve(p Path) (lines []LineID, move MoveID, ok bool) {
	if p.IsRoot() {
		return nil, NoMove, true
	}
	line := Mainline
	lines = make([]LineID, 0, len(p))
	for i, seg := range p {
		id, found := t.moveAt(line, seg.Ply)
		if !found {
			return nil, NoMove, false
		}
		lines = append(lines, line)
		if seg.Variation == 0 {
			if i != len(p)-1 {
				return nil, NoMove, false
			}
			return lines, id, true
		}
		vars := t.moves[id].Variations
		if seg.Variation > len(vars) || i == len(p)-1 {
			return nil, NoMove, false
		}
		line = vars[seg.Variation-1]
	}
	return nil, NoMove, false
}

func (t *Tree) Contains(p Path) bool {
	_, _, ok := t.Resolve(p)
	return ok
}

// Locate decodes token and checks that it addresses root or a move of t.
func (t *Tree) Locate(token string) (Path, error) {
	p, err := DecodePath(token)
	if err != nil {
		return nil, err
	}
	if !t.Contains(p) {
		return nil, fmt.Errorf("%w: %s", errs.ErrPathNotInTree, p.Encode())
	}
	return p, nil
}

// LastMainlinePath addresses the final mainline move, or root for an empty tree.
func (t *Tree) LastMainlinePath() Path {
	ids := t.lines[Mainline]
	if len(ids) == 0 {
		return RootPath()
	}
	return RootPath().WithPly(t.moves[ids[len(ids)-1]].Ply)
}

// Data rebuilds the nested form of the tree.
func (t *Tree) Data() TreeData {
	return TreeData{
		Mainline: t.lineData(Mainline),
		Opening:  t.opening,
		Status:   t.status,
	}
}

func (t *Tree) lineData(line LineID) []MoveData {
	ids := t.Line(line)
	out := make([]MoveData, 0, len(ids))
	for _, id := range ids {
		m := t.moves[id]
		md := MoveData{
			Ply:      m.Ply,
			SAN:      m.SAN,
			Eval:     m.Eval,
			Mate:     m.Mate,
			Comments: m.Comments,
		}
		for _, v := range m.Variations {
			md.Variations = append(md.Variations, t.lineData(v))
		}
		out = append(out, md)
	}
	return out
}
