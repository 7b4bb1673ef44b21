package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chess_analyse/internal/bootstrap"
	"chess_analyse/internal/domain/analysis"
	errs "chess_analyse/internal/errors"
	analysisUC "chess_analyse/internal/usecase/analysis"
)

type stubStore struct {
	mu       sync.Mutex
	analyses map[string]analysis.Analysis
	cursors  map[string]string
}

func (s *stubStore) SaveAnalysis(ctx context.Context, a analysis.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[a.ID] = a
	return nil
}

func (s *stubStore) GetAnalysis(ctx context.Context, id string) (analysis.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.analyses[id]
	if !ok {
		return analysis.Analysis{}, errs.ErrAnalysisNotFound
	}
	return a, nil
}

func (s *stubStore) ListAnalyses(ctx context.Context, limit int) ([]analysis.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]analysis.Analysis, 0, len(s.analyses))
	for _, a := range s.analyses {
		if len(out) == limit {
			break
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *stubStore) SaveCursor(ctx context.Context, id string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[id] = token
	return nil
}

func (s *stubStore) LoadCursor(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.cursors[id]
	if !ok {
		return "", errs.ErrCursorNotFound
	}
	return token, nil
}

type envelope struct {
	Status int             `json:"Status"`
	Body   json.RawMessage `json:"Body"`
}

type stateBody struct {
	ID       string               `json:"id"`
	Path     string               `json:"path"`
	Late     bool                 `json:"late"`
	Controls []analysisUC.Control `json:"controls"`
	Moves    []analysisUC.NodeDoc `json:"moves"`
}

const sicilianTree = `{"tree": {"mainline": [
	{"ply": 1, "san": "e4", "eval": 30, "variations": [[{"ply": 1, "san": "d4"}, {"ply": 2, "san": "d5"}]]},
	{"ply": 2, "san": "c5", "comments": ["Sicilian"]},
	{"ply": 3, "san": "Nf3", "mate": 4}
]}}`

func newTestServer(t *testing.T) *chi.Mux {
	t.Helper()
	log := zap.NewNop().Sugar()
	store := &stubStore{analyses: make(map[string]analysis.Analysis), cursors: make(map[string]string)}
	uc := analysisUC.NewAnalysisUseCase(store, log, analysisUC.Options{Render: analysisUC.DefaultRenderOptions()})
	h := NewAnalysisHandler(bootstrap.Config{}, log, uc)

	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, url, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: bad response %q: %v", method, url, rec.Body.String(), err)
	}
	return rec.Code, env
}

func create(t *testing.T, r http.Handler) string {
	t.Helper()
	code, env := do(t, r, http.MethodPost, "/analysis", sicilianTree)
	if code != http.StatusOK {
		t.Fatalf("create returned %d: %s", code, env.Body)
	}
	var resp analysis.CreateAnalysisResponse
	if err := json.Unmarshal(env.Body, &resp); err != nil || resp.ID == "" {
		t.Fatalf("bad create body %s: %v", env.Body, err)
	}
	return resp.ID
}

func decodeState(t *testing.T, env envelope) stateBody {
	t.Helper()
	var s stateBody
	if err := json.Unmarshal(env.Body, &s); err != nil {
		t.Fatalf("bad state body %s: %v", env.Body, err)
	}
	return s
}

func TestHandleCreateAndState(t *testing.T) {
	r := newTestServer(t)
	id := create(t, r)

	code, env := do(t, r, http.MethodGet, "/analysis/"+id+"/", "")
	if code != http.StatusOK {
		t.Fatalf("state returned %d", code)
	}
	s := decodeState(t, env)
	if s.ID != id || s.Path != "0" || s.Late {
		t.Errorf("state = %+v", s)
	}
	if len(s.Controls) != 4 || !s.Controls[3].Glowing {
		t.Errorf("controls = %+v", s.Controls)
	}
	if len(s.Moves) == 0 || s.Moves[0].Kind != analysisUC.KindTurn {
		t.Fatalf("moves = %+v", s.Moves)
	}
	if w := s.Moves[0].White; w == nil || w.SAN != "e4" || w.Eval != "+3.0" {
		t.Errorf("first white move = %+v", w)
	}
}

func TestHandleNavigation(t *testing.T) {
	r := newTestServer(t)
	id := create(t, r)
	base := "/analysis/" + id

	steps := []struct {
		method, url, body string
		want              string
	}{
		{http.MethodPost, base + "/next", "", "1"},
		{http.MethodPost, base + "/next", "", "2"},
		{http.MethodPost, base + "/jump", `{"path": "1:1,2"}`, "1:1,2"},
		{http.MethodPost, base + "/prev", "", "1:1,1"},
		{http.MethodPost, base + "/prev", "", "0"},
		{http.MethodPost, base + "/jump", `{"path": "7:1,7"}`, "0"},
		{http.MethodPost, base + "/wheel", `{"delta_y": 100}`, "1"},
		{http.MethodPost, base + "/last", "", "3"},
		{http.MethodPost, base + "/next", "", "3"},
		{http.MethodPost, base + "/first", "", "0"},
	}
	for _, step := range steps {
		code, env := do(t, r, step.method, step.url, step.body)
		if code != http.StatusOK {
			t.Fatalf("%s %s returned %d: %s", step.method, step.url, code, env.Body)
		}
		if s := decodeState(t, env); s.Path != step.want {
			t.Fatalf("%s %s: cursor %s, want %s", step.method, step.url, s.Path, step.want)
		}
	}
}

func TestHandleErrors(t *testing.T) {
	r := newTestServer(t)

	if code, _ := do(t, r, http.MethodGet, "/analysis/missing/", ""); code != http.StatusNotFound {
		t.Errorf("unknown analysis returned %d, want 404", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/analysis", `{"unknown": 1}`); code != http.StatusBadRequest {
		t.Errorf("unknown field returned %d, want 400", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/analysis", `{}`); code != http.StatusBadRequest {
		t.Errorf("empty request returned %d, want 400", code)
	}
	bad := `{"tree": {"mainline": [{"ply": 1, "san": "e4"}, {"ply": 4, "san": "e5"}]}}`
	if code, _ := do(t, r, http.MethodPost, "/analysis", bad); code != http.StatusBadRequest {
		t.Errorf("invalid tree returned %d, want 400", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/analysis", `{"pgn": "1. e4 e5 2. Ke3 *"}`); code != http.StatusBadRequest {
		t.Errorf("invalid pgn returned %d, want 400", code)
	}
}

type frame struct {
	Type  string     `json:"type"`
	Path  string     `json:"path"`
	State *stateBody `json:"state"`
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/analysis/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return f
}

func expectState(t *testing.T, conn *websocket.Conn, path string) {
	t.Helper()
	if f := readFrame(t, conn); f.Type != "state" || f.State == nil || f.State.Path != path {
		t.Fatalf("frame = %+v, want state at %s", f, path)
	}
}

func expectScroll(t *testing.T, conn *websocket.Conn, path string) {
	t.Helper()
	if f := readFrame(t, conn); f.Type != "scroll" || f.Path != path {
		t.Fatalf("frame = %+v, want scroll to %s", f, path)
	}
}

func TestHandleStream(t *testing.T) {
	r := newTestServer(t)
	id := create(t, r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dial(t, srv, id)
	expectState(t, conn, "0")

	if err := conn.WriteJSON(analysisUC.Command{Action: analysisUC.ActionNext}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	expectState(t, conn, "1")
	expectScroll(t, conn, "1")

	// a step that goes nowhere is still answered, without a scroll hint
	if err := conn.WriteJSON(analysisUC.Command{Action: analysisUC.ActionJump, Path: "9"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	expectState(t, conn, "1")
}

func TestHandleStream_SharedCursor(t *testing.T) {
	r := newTestServer(t)
	id := create(t, r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	watcher := dial(t, srv, id)
	expectState(t, watcher, "0")
	driver := dial(t, srv, id)
	expectState(t, driver, "0")

	if err := driver.WriteJSON(analysisUC.Command{Action: analysisUC.ActionLast}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	expectState(t, driver, "3")
	expectScroll(t, driver, "3")
	expectState(t, watcher, "3")
	expectScroll(t, watcher, "3")

	// moves made over plain HTTP reach the sockets too
	if code, _ := do(t, r, http.MethodPost, "/analysis/"+id+"/first", ""); code != http.StatusOK {
		t.Fatalf("first returned %d", code)
	}
	for _, conn := range []*websocket.Conn{watcher, driver} {
		expectState(t, conn, "0")
		expectScroll(t, conn, "0")
	}
}

func TestHandleList(t *testing.T) {
	r := newTestServer(t)
	id := create(t, r)

	code, env := do(t, r, http.MethodGet, "/analysis?limit=5", "")
	if code != http.StatusOK {
		t.Fatalf("list returned %d: %s", code, env.Body)
	}
	var list []analysis.AnalysisSummary
	if err := json.Unmarshal(env.Body, &list); err != nil {
		t.Fatalf("bad list body %s: %v", env.Body, err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Moves != 3 {
		t.Errorf("list = %+v", list)
	}

	if code, _ = do(t, r, http.MethodGet, "/analysis?limit=zero", ""); code != http.StatusBadRequest {
		t.Errorf("bad limit returned %d, want 400", code)
	}
}
