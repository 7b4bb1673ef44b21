package analysis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"chess_analyse/internal/domain/analysis"
	errs "chess_analyse/internal/errors"
)

type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, a analysis.Analysis) error
	GetAnalysis(ctx context.Context, id string) (analysis.Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]analysis.Analysis, error)
	SaveCursor(ctx context.Context, id string, token string) error
	LoadCursor(ctx context.Context, id string) (string, error)
}

// ScrollHook is told which move token should be scrolled into view. It is
// cosmetic: its outcome never affects the cursor.
type ScrollHook func(token string)

// Subscriber follows a session: OnState gets every state the cursor moves
// to, in order, and OnScroll the scroll hints that come after it.
type Subscriber struct {
	OnState  func(State)
	OnScroll ScrollHook
}

type Options struct {
	Render       RenderOptions
	CacheTTL     time.Duration
	SessionTTL   time.Duration
	ScrollSettle time.Duration
}

type Session struct {
	ID        string
	Navigator *Navigator

	// navMu orders moving the cursor, saving it and telling subscribers.
	navMu sync.Mutex

	subsMu sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

// State is what a client needs to draw the analysis board.
type State struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Ply      int       `json:"ply"`
	Late     bool      `json:"late"`
	Controls []Control `json:"controls"`
	Nodes    []Node    `json:"-"`
	// Moved is set when the command that produced the state moved the cursor.
	Moved    bool      `json:"-"`
}

type AnalysisUseCase struct {
	store    AnalysisStore
	log      *zap.SugaredLogger
	opts     Options
	cache    *gocache.Cache
	sessions *gocache.Cache

	// watchedMu guards watched, the sessions that have subscribers. They stay
	// loaded while idle so every socket keeps seeing the same cursor.
	watchedMu sync.Mutex
	watched   map[string]*Session
}

func NewAnalysisUseCase(store AnalysisStore, log *zap.SugaredLogger, opts Options) *AnalysisUseCase {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	a := &AnalysisUseCase{
		store:    store,
		log:      log,
		opts:     opts,
		cache:    gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		sessions: gocache.New(opts.SessionTTL, opts.SessionTTL/2),
		watched:  make(map[string]*Session),
	}
	a.sessions.OnEvicted(func(id string, _ interface{}) {
		a.log.Debugf("session %s expired", id)
	})
	return a
}

// CreateAnalysis builds a tree from a PGN or a tree document and opens a
// session on it with the cursor at the starting position.
func (a *AnalysisUseCase) CreateAnalysis(ctx context.Context, req analysis.CreateAnalysisRequest) (string, error) {
	var (
		data   analysis.TreeData
		source string
		err    error
	)
	switch {
	case req.Tree != nil:
		data, source = *req.Tree, "tree"
	case strings.TrimSpace(req.PGN) != "":
		data, err = ImportPGN(strings.NewReader(req.PGN))
		if err != nil {
			return "", err
		}
		source = "pgn"
	default:
		return "", fmt.Errorf("%w: neither pgn nor tree given", errs.ErrCreateAnalysis)
	}

	tree, err := analysis.NewTree(data)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	record := analysis.Analysis{
		ID:        id,
		Tree:      data,
		Source:    source,
		CreatedAt: time.Now(),
	}
	if err = a.store.SaveAnalysis(ctx, record); err != nil {
		a.log.Errorf("failed to save analysis %s: %v", id, err)
		return "", fmt.Errorf("%w: %w", errs.ErrInternal, err)
	}

	a.sessions.SetDefault(id, newSession(id, NewNavigator(tree, a.log)))

	a.log.Infof("analysis %s created from %s, %d mainline moves", id, source, len(data.Mainline))
	return id, nil
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ListAnalyses returns the most recently created analyses, newest first.
func (a *AnalysisUseCase) ListAnalyses(ctx context.Context, limit int) ([]analysis.AnalysisSummary, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	records, err := a.store.ListAnalyses(ctx, limit)
	if err != nil {
		a.log.Errorf("failed to list analyses: %v", err)
		return nil, fmt.Errorf("%w: %w", errs.ErrInternal, err)
	}

	out := make([]analysis.AnalysisSummary, 0, len(records))
	for _, r := range records {
		out = append(out, analysis.AnalysisSummary{
			ID:        r.ID,
			Source:    r.Source,
			CreatedAt: r.CreatedAt,
			Moves:     len(r.Tree.Mainline),
			Opening:   r.Tree.Opening,
			Status:    r.Tree.Status,
		})
	}
	return out, nil
}

func newSession(id string, nav *Navigator) *Session {
	return &Session{ID: id, Navigator: nav, subs: make(map[int]Subscriber)}
}

// GetSession returns the live session, loading the tree and the last cursor
// from the store when it is not in memory. A stored cursor that no longer
// fits the tree is dropped in favour of the starting position. Every call
// pushes the session's expiry back.
func (a *AnalysisUseCase) GetSession(ctx context.Context, id string) (*Session, error) {
	if v, ok := a.sessions.Get(id); ok {
		s := v.(*Session)
		a.sessions.SetDefault(id, s)
		return s, nil
	}
	a.watchedMu.Lock()
	s, ok := a.watched[id]
	a.watchedMu.Unlock()
	if ok {
		a.sessions.SetDefault(id, s)
		return s, nil
	}

	record, err := a.store.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	tree, err := analysis.NewTree(record.Tree)
	if err != nil {
		return nil, err
	}
	nav := NewNavigator(tree, a.log)

	token, err := a.store.LoadCursor(ctx, id)
	switch {
	case err == nil:
		if !nav.JumpToken(token) && token != nav.Token() {
			a.log.Warnw("stored cursor does not fit the tree", "id", id, "path", token)
		}
	case errors.Is(err, errs.ErrCursorNotFound):
	default:
		a.log.Errorf("failed to load cursor of %s: %v", id, err)
	}

	s = newSession(id, nav)
	if err = a.sessions.Add(id, s, gocache.DefaultExpiration); err != nil {
		// loaded concurrently, keep the one already shared
		if v, ok := a.sessions.Get(id); ok {
			return v.(*Session), nil
		}
		a.sessions.SetDefault(id, s)
	}
	a.log.Debugf("session %s loaded at %s", id, nav.Token())
	return s, nil
}

type Action string

const (
	ActionFirst Action = "first"
	ActionPrev  Action = "prev"
	ActionNext  Action = "next"
	ActionLast  Action = "last"
	ActionJump  Action = "jump"
	ActionWheel Action = "wheel"
)

// Command is one navigation request. Path is used by jump, DeltaY by wheel.
type Command struct {
	Action Action  `json:"action"`
	Path   string  `json:"path,omitempty"`
	DeltaY float64 `json:"delta_y,omitempty"`
}

// Navigate applies one command to the session cursor. Commands on one session
// run one at a time: the cursor that is saved and pushed to subscribers is
// always the one the command produced.
func (a *AnalysisUseCase) Navigate(ctx context.Context, id string, cmd Command) (State, error) {
	s, err := a.GetSession(ctx, id)
	if err != nil {
		return State{}, err
	}

	s.navMu.Lock()
	defer s.navMu.Unlock()

	snap, moved := s.Navigator.Apply(cmd)
	state := a.state(s, snap)
	if !moved {
		return state, nil
	}
	state.Moved = true

	if err = a.store.SaveCursor(ctx, id, state.Path); err != nil {
		a.log.Errorf("failed to save cursor of %s: %v", id, err)
	}
	a.broadcast(s, state)
	return state, nil
}

func (a *AnalysisUseCase) GetState(ctx context.Context, id string) (State, error) {
	s, err := a.GetSession(ctx, id)
	if err != nil {
		return State{}, err
	}
	return a.state(s, s.Navigator.Snapshot()), nil
}

func (a *AnalysisUseCase) state(s *Session, snap Snapshot) State {
	token := snap.Token()
	return State{
		ID:       s.ID,
		Path:     token,
		Ply:      snap.Path.Ply(),
		Late:     snap.Late,
		Controls: snap.Controls,
		Nodes:    a.render(s.Navigator.Tree(), snap.Path, token),
	}
}

// render memoizes by tree version and cursor token; the output is a pure
// function of both. Callers get their own slice, the nodes in it are shared
// and must not be modified.
func (a *AnalysisUseCase) render(tree *analysis.Tree, path analysis.Path, token string) []Node {
	key := tree.Version() + "|" + token + "|" + strconv.FormatBool(a.opts.Render.ShowComments)
	nodes, ok := a.cache.Get(key)
	if !ok {
		nodes = Render(tree, path, a.opts.Render)
		a.cache.SetDefault(key, nodes)
	}
	return append([]Node(nil), nodes.([]Node)...)
}

// Subscribe registers a subscriber on the session; the returned func removes
// it. Nothing is delivered to a subscriber after its removal returns, except
// a call already in progress.
func (a *AnalysisUseCase) Subscribe(ctx context.Context, id string, sub Subscriber) (func(), error) {
	s, err := a.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	a.watchedMu.Lock()
	defer a.watchedMu.Unlock()
	s.subsMu.Lock()
	key := s.nextID
	s.nextID++
	s.subs[key] = sub
	s.subsMu.Unlock()
	a.watched[id] = s

	return func() {
		a.watchedMu.Lock()
		defer a.watchedMu.Unlock()
		s.subsMu.Lock()
		delete(s.subs, key)
		left := len(s.subs)
		s.subsMu.Unlock()
		if left == 0 && a.watched[id] == s {
			delete(a.watched, id)
		}
	}, nil
}

// broadcast sends the new state to every subscriber, then the scroll hints:
// once now and once more after the layout settle delay.
func (a *AnalysisUseCase) broadcast(s *Session, state State) {
	s.subsMu.Lock()
	keys := make([]int, 0, len(s.subs))
	for k := range s.subs {
		keys = append(keys, k)
	}
	s.subsMu.Unlock()
	if len(keys) == 0 {
		return
	}

	// look each subscriber up again so a removed one is skipped
	each := func(fn func(Subscriber)) {
		for _, k := range keys {
			s.subsMu.Lock()
			sub, ok := s.subs[k]
			s.subsMu.Unlock()
			if ok {
				fn(sub)
			}
		}
	}

	each(func(sub Subscriber) {
		if sub.OnState != nil {
			sub.OnState(state)
		}
	})
	scroll := func() {
		each(func(sub Subscriber) {
			if sub.OnScroll != nil {
				sub.OnScroll(state.Path)
			}
		})
	}
	scroll()
	if a.opts.ScrollSettle > 0 {
		time.AfterFunc(a.opts.ScrollSettle, scroll)
	}
}
