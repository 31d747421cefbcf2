package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	sharederrors "github.com/sahayak/qa-service/shared/errors"
	sharedserver "github.com/sahayak/qa-service/shared/server"
)

type errorResponse = sharederrors.ErrorResponse

func writeError(w http.ResponseWriter, r *http.Request, code, message string) {
	writeJSON(w, sharederrors.ToStatusCode(code), errorResponse{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	sharedserver.WriteJSON(w, status, payload)
}
