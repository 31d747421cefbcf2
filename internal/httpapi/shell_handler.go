package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sahayak/qa-service/shared/dto"
	"github.com/sahayak/qa-service/shared/logging"
)

const (
	defaultUserID    = "default_user"
	defaultSessionID = "simple_session"
	rootMessage      = "Sahayak Educational API is running"
	statusSuccess    = "success"
	statusError      = "error"
)

var requestValidator = validator.New()

// Replier produces the chat shell's canned reply for a prompt.
type Replier interface {
	Reply(prompt string) (string, error)
}

// RegisterShellRoutes wires the unauthenticated chat shell onto r.
func RegisterShellRoutes(r chi.Router, replier Replier, logger *slog.Logger) {
	h := &shellHandler{replier: replier, logger: logger}
	r.Get("/", h.root)
	r.Post("/run", h.run)
}

type shellHandler struct {
	replier Replier
	logger  *slog.Logger
}

type runRequest struct {
	Prompt    *string        `json:"prompt" validate:"required"`
	UserID    optionalString `json:"user_id"`
	SessionID *string        `json:"session_id"`
}

// optionalString tells an absent field apart from an explicit null.
type optionalString struct {
	set   bool
	value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.set = true
	if string(data) == "null" {
		o.value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = &v
	return nil
}

type runResponse struct {
	Response  string  `json:"response"`
	UserID    *string `json:"user_id"`
	SessionID string  `json:"session_id"`
	Status    string  `json:"status"`
}

type runErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

func (h *shellHandler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.RootResponse{Message: rootMessage})
}

func (h *shellHandler) run(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.logger)

	var body runRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, runErrorResponse{Error: "invalid JSON payload", Status: statusError})
		return
	}
	if err := requestValidator.Struct(body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, runErrorResponse{Error: "prompt is required", Status: statusError})
		return
	}

	reply, err := h.replier.Reply(*body.Prompt)
	if err != nil {
		logger.ErrorContext(r.Context(), "chat shell reply failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, runErrorResponse{
			Error:  fmt.Sprintf("Failed to process request: %s", err.Error()),
			Status: statusError,
		})
		return
	}

	fallbackUser := defaultUserID
	userID := &fallbackUser
	if body.UserID.set {
		userID = body.UserID.value
	}
	sessionID := defaultSessionID
	if body.SessionID != nil && *body.SessionID != "" {
		sessionID = *body.SessionID
	}

	writeJSON(w, http.StatusOK, runResponse{
		Response:  reply,
		UserID:    userID,
		SessionID: sessionID,
		Status:    statusSuccess,
	})
}
