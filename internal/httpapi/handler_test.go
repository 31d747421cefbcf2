package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedauth "github.com/sahayak/qa-service/shared/auth"
	sharedserver "github.com/sahayak/qa-service/shared/server"

	"github.com/sahayak/qa-service/internal/agent"
	"github.com/sahayak/qa-service/internal/qa"
	"github.com/sahayak/qa-service/internal/shell"
)

const greeting = "नमस्ते! आपका स्वागत है। मैं आपकी कैसे मदद कर सकता हूं? (Hello! Welcome. How can I help you?)"

type replierFunc func(string) (string, error)

func (f replierFunc) Reply(prompt string) (string, error) { return f(prompt) }

func newTestRouter(t *testing.T, replier Replier) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tools := agent.NewToolset(qa.NewResponder(logger))
	svc, err := agent.NewService("qa_agent", agent.NewMemoryStore(), tools, agent.NewSystemClock(), agent.NewUUIDGenerator(), logger)
	require.NoError(t, err)

	verifier, err := sharedauth.NewVerifier(sharedauth.Config{Mode: sharedauth.ModeNoop})
	require.NoError(t, err)

	return sharedserver.NewRouter(sharedserver.RouterConfig{
		HealthMessage:  "Sahayak API is running",
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3003"},
	}, func(r chi.Router) {
		RegisterShellRoutes(r, replier, logger)
		r.Group(func(r chi.Router) {
			r.Use(sharedauth.Middleware(verifier))
			RegisterAgentRoutes(r, svc, logger)
		})
	})
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthAndRoot(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())

	rec := do(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok", "message": "Sahayak API is running"}, decode(t, rec))

	rec = do(t, h, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"message": "Sahayak Educational API is running"}, decode(t, rec))
}

func TestRunGreeting(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())

	rec := do(t, h, http.MethodPost, "/run", `{"prompt":"hello"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, greeting, body["response"])
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "default_user", body["user_id"])
	assert.Equal(t, "simple_session", body["session_id"])
}

func TestRunEchoesIdentifiers(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())

	rec := do(t, h, http.MethodPost, "/run", `{"prompt":"मदद","user_id":"pavani","session_id":"s-42"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "pavani", body["user_id"])
	assert.Equal(t, "s-42", body["session_id"])
	assert.Contains(t, body["response"], "Attendance management")

	rec = do(t, h, http.MethodPost, "/run", `{"prompt":"x","session_id":""}`, nil)
	assert.Equal(t, "simple_session", decode(t, rec)["session_id"])

	rec = do(t, h, http.MethodPost, "/run", `{"prompt":"x","user_id":null}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	userID, present := body["user_id"]
	assert.True(t, present)
	assert.Nil(t, userID)

	rec = do(t, h, http.MethodPost, "/run", `{"prompt":"x","user_id":7}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRunRejectsBadRequests(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())

	for _, body := range []string{`{}`, `{"user_id":"u"}`, `not json`} {
		rec := do(t, h, http.MethodPost, "/run", body, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		assert.Equal(t, "error", decode(t, rec)["status"], body)
	}
}

func TestRunReportsClassifierFailure(t *testing.T) {
	h := newTestRouter(t, replierFunc(func(string) (string, error) {
		return "", errors.New("rule table unavailable")
	}))

	rec := do(t, h, http.MethodPost, "/run", `{"prompt":"hello"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"error":  "Failed to process request: rule table unavailable",
		"status": "error",
	}, decode(t, rec))
}

func TestRunCORS(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())

	rec := do(t, h, http.MethodOptions, "/run", "", map[string]string{
		"Origin":                         "http://localhost:3003",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "Content-Type",
	})
	assert.Equal(t, "http://localhost:3003", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAgentRoutesRequireAuth(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())

	rec := do(t, h, http.MethodGet, "/v1/tools", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAgentToolsListing(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())

	rec := do(t, h, http.MethodGet, "/v1/tools", "", map[string]string{"X-User-ID": "teacher"})
	require.Equal(t, http.StatusOK, rec.Code)
	tools, ok := decode(t, rec)["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 3)
}

func TestAgentSessionLifecycle(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())
	auth := map[string]string{"Authorization": "Bearer teacher-1"}

	rec := do(t, h, http.MethodPost, "/v1/sessions", "", auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sessionID, _ := decode(t, rec)["id"].(string)
	require.NotEmpty(t, sessionID)

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+sessionID+"/tools/answer_question", `{"question":"गणित क्या है?"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "hi", rec.Header().Get("Content-Language"))
	body := decode(t, rec)
	assert.Equal(t, "answer_question", body["name"])
	response, ok := body["response"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, "hindi", response["language"])

	rec = do(t, h, http.MethodGet, "/v1/sessions/"+sessionID, "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	state, ok := decode(t, rec)["state"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"language": "hindi"}, state["preferences"])

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+sessionID+"/tools/provide_explanation", `{"topic":"Fractions","difficulty_level":"easy"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	response = decode(t, rec)["response"].(map[string]any)
	assert.Equal(t, "Fractions का सरल विवरण: यह एक महत्वपूर्ण विषय है जिसे समझना आवश्यक है। मैं इसे आसान तरीके से समझा सकता हूं।", response["explanation"])

	rec = do(t, h, http.MethodGet, "/v1/sessions/"+sessionID, "", map[string]string{"X-User-ID": "someone-else"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/sessions", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = do(t, h, http.MethodDelete, "/v1/sessions/"+sessionID, "", auth)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/sessions/"+sessionID, "", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAgentSessionSeededLanguage(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())
	auth := map[string]string{"X-User-ID": "teacher-2"}

	rec := do(t, h, http.MethodPost, "/v1/sessions", `{"language":"hindi"}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	sessionID := decode(t, rec)["id"].(string)

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+sessionID+"/tools/answer_question", `{"question":"What is science?"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	response := decode(t, rec)["response"].(map[string]any)
	assert.Equal(t, "hindi", response["language"])
	assert.Equal(t, "english", response["detected_language"])

	rec = do(t, h, http.MethodPost, "/v1/sessions", `{"language":"klingon"}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decode(t, rec)["code"])
}

func TestAgentToolErrors(t *testing.T) {
	h := newTestRouter(t, shell.NewClassifier())
	auth := map[string]string{"X-User-ID": "teacher-3"}

	rec := do(t, h, http.MethodPost, "/v1/sessions", `{}`, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	sessionID := decode(t, rec)["id"].(string)

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+sessionID+"/tools/grade_homework", `{}`, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["code"])

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+sessionID+"/tools/answer_question", `{"question":""}`, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", decode(t, rec)["response"].(map[string]any)["status"])

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+sessionID+"/tools/answer_question", `{}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "bad_request", body["code"])
	assert.Equal(t, "question is required", body["message"])

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+sessionID+"/tools/answer_question", `[1,2]`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/sessions/missing/tools/answer_question", `{"question":"hi"}`, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
