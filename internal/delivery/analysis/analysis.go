package analysis

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chess_analyse/internal/bootstrap"
	"chess_analyse/internal/domain/analysis"
	errs "chess_analyse/internal/errors"
	"chess_analyse/internal/httpresponse"
	analysisUC "chess_analyse/internal/usecase/analysis"
	"chess_analyse/internal/utils"
)

type AnalysisHandler struct {
	cfg        bootstrap.Config
	log        *zap.SugaredLogger
	analysisUC *analysisUC.AnalysisUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewAnalysisHandler(cfg bootstrap.Config, log *zap.SugaredLogger, uc *analysisUC.AnalysisUseCase) *AnalysisHandler {
	return &AnalysisHandler{
		cfg:        cfg,
		log:        log,
		analysisUC: uc,
	}
}

func (h *AnalysisHandler) Routes(r chi.Router) {
	r.Get("/analysis", h.HandleList)
	r.Post("/analysis", h.HandleCreate)
	r.Route("/analysis/{id}", func(r chi.Router) {
		r.Get("/", h.HandleState)
		r.Post("/first", h.step(analysisUC.ActionFirst))
		r.Post("/prev", h.step(analysisUC.ActionPrev))
		r.Post("/next", h.step(analysisUC.ActionNext))
		r.Post("/last", h.step(analysisUC.ActionLast))
		r.Post("/jump", h.HandleJump)
		r.Post("/wheel", h.HandleWheel)
		r.Get("/ws", h.HandleStream)
	})
}

func (h *AnalysisHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req analysis.CreateAnalysisRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error:", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}

	id, err := h.analysisUC.CreateAnalysis(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, analysis.CreateAnalysisResponse{ID: id})
}

// HandleList answers GET /analysis?limit=N with the newest analyses.
func (h *AnalysisHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := h.analysisUC.ListAnalyses(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, list)
}

func (h *AnalysisHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	state, err := h.analysisUC.GetState(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, newStateResponse(state))
}

func (h *AnalysisHandler) step(action analysisUC.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.navigate(w, r, analysisUC.Command{Action: action})
	}
}

// HandleJump moves the cursor to a clicked move. A token that can't be
// decoded or isn't in the tree leaves the cursor where it was.
func (h *AnalysisHandler) HandleJump(w http.ResponseWriter, r *http.Request) {
	var req analysis.JumpRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error:", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}
	h.navigate(w, r, analysisUC.Command{Action: analysisUC.ActionJump, Path: req.Path})
}

func (h *AnalysisHandler) HandleWheel(w http.ResponseWriter, r *http.Request) {
	var req analysis.WheelRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error:", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}
	h.navigate(w, r, analysisUC.Command{Action: analysisUC.ActionWheel, DeltaY: req.DeltaY})
}

func (h *AnalysisHandler) navigate(w http.ResponseWriter, r *http.Request, cmd analysisUC.Command) {
	state, err := h.analysisUC.Navigate(r.Context(), chi.URLParam(r, "id"), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, newStateResponse(state))
}

type streamFrame struct {
	Type  string         `json:"type"`
	Path  string         `json:"path,omitempty"`
	State *stateResponse `json:"state,omitempty"`
}

const streamWriteWait = 10 * time.Second

var errStreamClosed = errors.New("stream closed")

// HandleStream serves a websocket that takes navigation commands (buttons,
// keys, wheel). Every cursor move of the analysis, whoever made it, is pushed
// as a state frame followed by scroll hints for the active move. A command
// that leaves the cursor where it was is answered with the current state.
func (h *AnalysisHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	state, err := h.analysisUC.GetState(ctx, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade error:", err)
		return
	}

	var (
		writeMu sync.Mutex
		closed  bool
	)
	send := func(frame streamFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		if closed {
			return errStreamClosed
		}
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return conn.WriteJSON(frame)
	}
	sendState := func(state analysisUC.State) error {
		resp := newStateResponse(state)
		return send(streamFrame{Type: "state", State: &resp})
	}
	defer func() {
		writeMu.Lock()
		closed = true
		writeMu.Unlock()
		conn.Close()
	}()

	unsubscribe, err := h.analysisUC.Subscribe(ctx, id, analysisUC.Subscriber{
		OnState: func(state analysisUC.State) {
			if err := sendState(state); err != nil {
				h.log.Debugf("state frame dropped: %v", err)
			}
		},
		OnScroll: func(token string) {
			if err := send(streamFrame{Type: "scroll", Path: token}); err != nil {
				h.log.Debugf("scroll hint dropped: %v", err)
			}
		},
	})
	if err != nil {
		h.log.Error(err)
		return
	}
	defer unsubscribe()

	if err = sendState(state); err != nil {
		h.log.Error("write error:", err)
		return
	}

	for {
		var cmd analysisUC.Command
		if err = conn.ReadJSON(&cmd); err != nil {
			h.log.Debugf("stream %s closed: %v", id, err)
			return
		}

		state, err = h.analysisUC.Navigate(ctx, id, cmd)
		if err != nil {
			h.log.Error(err)
			return
		}
		if state.Moved {
			continue
		}
		if err = sendState(state); err != nil {
			h.log.Error("write error:", err)
			return
		}
	}
}

func (h *AnalysisHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrAnalysisNotFound):
		httpresponse.WriteErrorWithStatus(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidTree), errors.Is(err, errs.ErrInvalidPGN), errors.Is(err, errs.ErrCreateAnalysis):
		h.log.Debugf("bad analysis request: %v", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error(err)
		httpresponse.WriteInternalErrorResponse(w)
	}
}
