package analysis

import (
	analysisUC "chess_analyse/internal/usecase/analysis"
)

type stateResponse struct {
	analysisUC.State
	Moves []analysisUC.NodeDoc `json:"moves"`
}

func newStateResponse(state analysisUC.State) stateResponse {
	return stateResponse{State: state, Moves: analysisUC.Docs(state.Nodes)}
}
