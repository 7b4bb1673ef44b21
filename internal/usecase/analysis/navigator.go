package analysis

import (
	"sync"

	"go.uber.org/zap"

	"chess_analyse/internal/domain/analysis"
)

// Navigator owns the single cursor of an analysis session. Every operation
// runs under one lock, so a jump never interleaves with a step. The tree is
// never modified.
type Navigator struct {
	mu     sync.Mutex
	tree   *analysis.Tree
	cursor analysis.Path
	log    *zap.SugaredLogger
}

func NewNavigator(tree *analysis.Tree, log *zap.SugaredLogger) *Navigator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Navigator{
		tree:   tree,
		cursor: analysis.RootPath(),
		log:    log,
	}
}

func (n *Navigator) Tree() *analysis.Tree {
	return n.tree
}

func (n *Navigator) Path() analysis.Path {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append(analysis.Path{}, n.cursor...)
}

func (n *Navigator) Token() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cursor.Encode()
}

// Current is the move under the cursor, nil at root.
func (n *Navigator) Current() *analysis.Move {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, id, _ := n.tree.Resolve(n.cursor)
	return n.tree.Move(id)
}

func (n *Navigator) First() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.first()
}

// Last always goes to the end of the mainline, whatever branch the cursor is on.
func (n *Navigator) Last() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last()
}

// Next steps one ply forward on the current branch. At the end of the branch
// the cursor stays where it is.
func (n *Navigator) Next() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.next()
}

// Prev steps one ply back. From the first move of a variation it returns to
// the position before that move on the enclosing branch. At root it does
// nothing.
func (n *Navigator) Prev() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.prev()
}

// Jump moves the cursor to p if p is root or addresses a move of the tree.
// Otherwise the cursor is left untouched.
func (n *Navigator) Jump(p analysis.Path) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.jump(p)
}

// JumpToken decodes a path token and jumps to it; bad tokens are ignored.
func (n *Navigator) JumpToken(token string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.jumpToken(token)
}

// Wheel maps a scroll gesture: down is next, up is prev.
func (n *Navigator) Wheel(deltaY float64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.wheel(deltaY)
}

// Snapshot is the cursor together with everything derived from it, all read
// under one lock.
type Snapshot struct {
	Path     analysis.Path
	Late     bool
	Controls []Control
}

func (s Snapshot) Token() string {
	return s.Path.Encode()
}

func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshot()
}

// Apply runs one command and returns the resulting snapshot without letting
// another operation in between. Unknown actions leave the cursor alone.
func (n *Navigator) Apply(cmd Command) (Snapshot, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var moved bool
	switch cmd.Action {
	case ActionFirst:
		moved = n.first()
	case ActionPrev:
		moved = n.prev()
	case ActionNext:
		moved = n.next()
	case ActionLast:
		moved = n.last()
	case ActionJump:
		moved = n.jumpToken(cmd.Path)
	case ActionWheel:
		moved = n.wheel(cmd.DeltaY)
	default:
		n.log.Debugf("unknown navigation action %q", cmd.Action)
	}
	return n.snapshot(), moved
}

func (n *Navigator) snapshot() Snapshot {
	return Snapshot{
		Path:     append(analysis.Path{}, n.cursor...),
		Late:     n.isLate(),
		Controls: n.controls(),
	}
}

func (n *Navigator) first() bool {
	return n.set(analysis.RootPath())
}

func (n *Navigator) last() bool {
	return n.set(n.tree.LastMainlinePath())
}

func (n *Navigator) next() bool {
	next := n.cursor.WithPly(n.cursor.Ply() + 1)
	if !n.tree.Contains(next) {
		n.log.Debugf("next: end of branch at %s", n.cursor.Encode())
		return false
	}
	return n.set(next)
}

func (n *Navigator) prev() bool {
	if n.cursor.IsRoot() {
		n.log.Debugf("prev: already at root")
		return false
	}
	return n.set(n.before(n.cursor))
}

func (n *Navigator) before(p analysis.Path) analysis.Path {
	lines, _, ok := n.tree.Resolve(p)
	if !ok {
		return analysis.RootPath()
	}
	target := p.Ply() - 1
	for k := len(p) - 1; k >= 0; k-- {
		first := n.tree.Move(n.tree.Line(lines[k])[0]).Ply
		if target >= first {
			out := append(analysis.Path{}, p[:k+1]...)
			out[k] = analysis.PathSegment{Ply: target}
			return out
		}
	}
	return analysis.RootPath()
}

func (n *Navigator) jump(p analysis.Path) bool {
	if !n.tree.Contains(p) {
		n.log.Debugf("jump: %s is not in the tree", p.Encode())
		return false
	}
	return n.set(append(analysis.Path{}, p...))
}

func (n *Navigator) jumpToken(token string) bool {
	p, err := n.tree.Locate(token)
	if err != nil {
		n.log.Debugf("jump: %v", err)
		return false
	}
	return n.jump(p)
}

func (n *Navigator) wheel(deltaY float64) bool {
	switch {
	case deltaY > 0:
		return n.next()
	case deltaY < 0:
		return n.prev()
	}
	return false
}

// IsLate reports whether the cursor sits on the last mainline position.
func (n *Navigator) IsLate() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.isLate()
}

func (n *Navigator) isLate() bool {
	return n.cursor.Equal(n.tree.LastMainlinePath())
}

func (n *Navigator) set(p analysis.Path) bool {
	if p.Equal(n.cursor) {
		return false
	}
	n.cursor = p
	return true
}

type Control struct {
	Name     string `json:"name" yaml:"name"`
	Icon     string `json:"icon" yaml:"icon"`
	Disabled bool   `json:"disabled" yaml:"disabled"`
	Glowing  bool   `json:"glowing" yaml:"glowing"`
}

// Controls describes the first/prev/next/last buttons for the current cursor.
func (n *Navigator) Controls() []Control {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.controls()
}

func (n *Navigator) controls() []Control {
	empty := n.tree.IsEmpty()
	late := n.isLate()
	return []Control{
		{Name: "first", Icon: "W", Disabled: empty},
		{Name: "prev", Icon: "Y", Disabled: empty},
		{Name: "next", Icon: "X", Disabled: empty},
		{Name: "last", Icon: "V", Disabled: empty, Glowing: !empty && !late},
	}
}
