package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"google.golang.org/genai"

	sharedauth "github.com/sahayak/qa-service/shared/auth"
	sharederrors "github.com/sahayak/qa-service/shared/errors"
	"github.com/sahayak/qa-service/shared/logging"

	"github.com/sahayak/qa-service/internal/agent"
	"github.com/sahayak/qa-service/internal/qa"
)

// RegisterAgentRoutes wires the tool host routes onto r. Callers must install auth middleware first.
func RegisterAgentRoutes(r chi.Router, svc *agent.Service, logger *slog.Logger) {
	h := &agentHandler{service: svc, logger: logger}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/tools", h.listTools)
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.listSessions)
			r.Post("/", h.createSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getSession)
				r.Delete("/", h.deleteSession)
				r.Post("/tools/{name}", h.invokeTool)
			})
		})
	})
}

type agentHandler struct {
	service *agent.Service
	logger  *slog.Logger
}

type toolsResponse struct {
	Tools []*genai.FunctionDeclaration `json:"tools"`
}

type toolCallResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type createSessionRequest struct {
	Language string `json:"language"`
}

type sessionResponse struct {
	ID        string         `json:"id"`
	AppName   string         `json:"appName"`
	UserID    string         `json:"userId"`
	State     map[string]any `json:"state"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

type listSessionsResponse struct {
	Data []sessionResponse `json:"data"`
}

func (h *agentHandler) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toolsResponse{Tools: h.service.Tools().Declarations()})
}

func (h *agentHandler) listSessions(w http.ResponseWriter, r *http.Request) {
	user, ok := sharedauth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, sharederrors.CodeUnauthorized, "unauthorized")
		return
	}

	sessions, err := h.service.List(r.Context(), user.UserID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	payload := listSessionsResponse{Data: make([]sessionResponse, len(sessions))}
	for i, session := range sessions {
		payload.Data[i] = mapSession(session)
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *agentHandler) createSession(w http.ResponseWriter, r *http.Request) {
	user, ok := sharedauth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, sharederrors.CodeUnauthorized, "unauthorized")
		return
	}

	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, sharederrors.CodeBadRequest, "invalid JSON payload")
		return
	}

	session, err := h.service.Create(r.Context(), agent.CreateInput{UserID: user.UserID, Language: body.Language})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapSession(session))
}

func (h *agentHandler) getSession(w http.ResponseWriter, r *http.Request) {
	user, ok := sharedauth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, sharederrors.CodeUnauthorized, "unauthorized")
		return
	}

	session, err := h.service.Get(r.Context(), user.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSession(session))
}

func (h *agentHandler) deleteSession(w http.ResponseWriter, r *http.Request) {
	user, ok := sharedauth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, sharederrors.CodeUnauthorized, "unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), user.UserID, chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *agentHandler) invokeTool(w http.ResponseWriter, r *http.Request) {
	user, ok := sharedauth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, sharederrors.CodeUnauthorized, "unauthorized")
		return
	}

	args := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, sharederrors.CodeBadRequest, "invalid JSON payload")
		return
	}

	call := &genai.FunctionCall{
		ID:   middleware.GetReqID(r.Context()),
		Name: chi.URLParam(r, "name"),
		Args: args,
	}
	resp, err := h.service.Invoke(r.Context(), user.UserID, chi.URLParam(r, "id"), call)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	if raw, ok := resp.Response["language"].(string); ok {
		if lang, ok := qa.ParseLanguage(raw); ok {
			w.Header().Set("Content-Language", lang.Tag().String())
		}
	}
	writeJSON(w, http.StatusOK, toolCallResponse{ID: resp.ID, Name: resp.Name, Response: resp.Response})
}

func (h *agentHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, agent.ErrNotFound):
		writeError(w, r, sharederrors.CodeNotFound, "session not found")
	case errors.Is(err, agent.ErrUnknownTool):
		writeError(w, r, sharederrors.CodeNotFound, "tool not found")
	case errors.Is(err, agent.ErrConflict):
		writeError(w, r, sharederrors.CodeConflict, "session already exists")
	case errors.Is(err, agent.ErrInvalidInput), errors.Is(err, agent.ErrInvalidArguments):
		message := err.Error()
		if idx := strings.Index(message, ":"); idx >= 0 {
			message = strings.TrimSpace(message[idx+1:])
		}
		writeError(w, r, sharederrors.CodeBadRequest, message)
	default:
		logging.WithRequestID(r.Context(), h.logger).ErrorContext(r.Context(), "agent request failed", slog.String("error", err.Error()))
		writeError(w, r, sharederrors.CodeInternal, "internal server error")
	}
}

func mapSession(session *agent.Session) sessionResponse {
	var state map[string]any
	if session.State != nil {
		state = session.State.Snapshot()
	}
	return sessionResponse{
		ID:        session.ID,
		AppName:   session.AppName,
		UserID:    session.UserID,
		State:     state,
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
		UpdatedAt: session.UpdatedAt.Format(time.RFC3339),
	}
}
