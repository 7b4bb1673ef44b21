package errors

import "errors"

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrCreateAnalysis   = errors.New("create analysis failed")
	ErrInvalidTree      = errors.New("invalid move tree")
	ErrMalformedPath    = errors.New("malformed path token")
	ErrPathNotInTree    = errors.New("path does not address a move in the tree")
	ErrCursorNotFound   = errors.New("cursor was not found")
	ErrInvalidPGN       = errors.New("invalid pgn")
	ErrInternal         = errors.New("internal error")
)
