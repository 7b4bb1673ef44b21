package httpresponse

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with.
type Response[T any] struct {
	Status int `json:"Status"`
	Body   T   `json:"Body,omitempty"`
}

type ErrorResponse struct {
	ErrorDescription string `json:"ErrorDescription"`
}

const MALFORMEDJSON_errorDesc = "json unmarshalling error"

const internalErrorDesc = "internal server error"

// internalErrorJSON is written when the envelope itself fails to marshal.
var internalErrorJSON = []byte(`{"Status":500,"Body":{"ErrorDescription":"` + internalErrorDesc + `"}}`)

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	payload, err := json.Marshal(Response[any]{Status: status, Body: body})
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func WriteErrorWithStatus(w http.ResponseWriter, status int, description string) {
	WriteResponseWithStatus(w, status, ErrorResponse{ErrorDescription: description})
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(internalErrorJSON)
}
