package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Status reports whether a tool call produced a regular answer.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrInternal wraps faults recovered at the operation boundary.
var ErrInternal = errors.New("internal error")

var statusMessages = map[Language]struct {
	answered, explained, answerFailed, explainFailed string
}{
	English: {
		answered:      "Question answered successfully",
		explained:     "Explanation provided successfully",
		answerFailed:  "I apologize, but I encountered an error while processing your question. Please try again.",
		explainFailed: "Sorry, I couldn't provide the explanation. Please try again.",
	},
	Hindi: {
		answered:      "प्रश्न का उत्तर सफलतापूर्वक दिया गया",
		explained:     "व्याख्या सफलतापूर्वक प्रदान की गई",
		answerFailed:  "क्षमा करें, आपके प्रश्न को संसाधित करते समय त्रुटि हुई। कृपया पुनः प्रयास करें।",
		explainFailed: "क्षमा करें, मैं व्याख्या प्रदान नहीं कर सका। कृपया पुनः प्रयास करें।",
	},
}

// AnswerEnvelope is the result of Answer.
type AnswerEnvelope struct {
	Status           Status   `json:"status"`
	Question         string   `json:"question"`
	Answer           string   `json:"answer"`
	Language         Language `json:"language"`
	DetectedLanguage Language `json:"detected_language,omitempty"`
	Message          string   `json:"message"`
	Error            string   `json:"error,omitempty"`
}

// ExplanationEnvelope is the result of Explain.
type ExplanationEnvelope struct {
	Status          Status   `json:"status"`
	Topic           string   `json:"topic"`
	DifficultyLevel string   `json:"difficulty_level"`
	Explanation     string   `json:"explanation"`
	Language        Language `json:"language"`
	Message         string   `json:"message"`
	Error           string   `json:"error,omitempty"`
}

// Responder answers educational questions from a fixed rule table.
type Responder struct {
	logger *slog.Logger
}

// NewResponder returns a Responder logging through logger, or slog.Default when nil.
func NewResponder(logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{logger: logger}
}

// Answer classifies question, picks the response language and returns a canned answer.
// The resolved language is written back to state when it differs from the stored one.
func (r *Responder) Answer(ctx context.Context, question string, state SessionState) (env AnswerEnvelope) {
	responseLang := English
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%w: %v", ErrInternal, rec)
			r.logger.ErrorContext(ctx, "error answering question", slog.String("error", err.Error()))
			msg := statusMessages[responseLang].answerFailed
			env = AnswerEnvelope{
				Status:   StatusError,
				Question: question,
				Answer:   msg,
				Language: responseLang,
				Message:  msg,
				Error:    err.Error(),
			}
		}
	}()

	r.logger.InfoContext(ctx, "answering question", slog.String("question", truncate(question, 100)))

	detected := DetectLanguage(question)
	responseLang = resolveLanguage(Preference(state), detected)
	bucket, answer := route(question, responseLang)

	r.syncPreference(ctx, state, responseLang)

	r.logger.DebugContext(ctx, "question routed",
		slog.String("bucket", string(bucket)),
		slog.String("language", string(responseLang)),
		slog.String("detected", string(detected)),
	)

	return AnswerEnvelope{
		Status:           StatusSuccess,
		Question:         question,
		Answer:           answer,
		Language:         responseLang,
		DetectedLanguage: detected,
		Message:          statusMessages[responseLang].answered,
	}
}

// Explain describes topic at the requested difficulty in the session's preferred language.
func (r *Responder) Explain(ctx context.Context, topic, difficulty string, state SessionState) (env ExplanationEnvelope) {
	lang := English
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%w: %v", ErrInternal, rec)
			r.logger.ErrorContext(ctx, "error providing explanation", slog.String("error", err.Error()))
			msg := statusMessages[lang].explainFailed
			env = ExplanationEnvelope{
				Status:          StatusError,
				Topic:           topic,
				DifficultyLevel: difficulty,
				Explanation:     msg,
				Language:        lang,
				Message:         msg,
				Error:           err.Error(),
			}
		}
	}()

	r.logger.InfoContext(ctx, "providing explanation", slog.String("topic", topic))

	lang = Preference(state)

	return ExplanationEnvelope{
		Status:          StatusSuccess,
		Topic:           topic,
		DifficultyLevel: difficulty,
		Explanation:     explain(topic, difficulty, lang),
		Language:        lang,
		Message:         statusMessages[lang].explained,
	}
}

func (r *Responder) syncPreference(ctx context.Context, state SessionState, lang Language) {
	if state == nil {
		return
	}
	if stored, ok := storedLanguage(state); ok && stored == string(lang) {
		return
	}
	if err := SetPreference(state, lang); err != nil {
		r.logger.WarnContext(ctx, "could not update language preference", slog.String("error", err.Error()))
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
