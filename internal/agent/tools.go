package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/sahayak/qa-service/internal/qa"
)

// Tool names as exposed to the agent host.
const (
	ToolAnswerQuestion     = "answer_question"
	ToolProvideExplanation = "provide_explanation"
	ToolLocalizeText       = "localize_text"
)

const defaultDifficulty = "medium"

// Toolset publishes the QA responder as callable functions.
type Toolset struct {
	responder *qa.Responder
}

// NewToolset wraps responder.
func NewToolset(responder *qa.Responder) *Toolset {
	return &Toolset{responder: responder}
}

// Declarations describes the tools for a function-calling model.
func (t *Toolset) Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        ToolAnswerQuestion,
			Description: "Answer any educational query in Hindi or English, following the session's language preference.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {Type: genai.TypeString, Description: "The learner's question, verbatim."},
				},
				Required: []string{"question"},
			},
		},
		{
			Name:        ToolProvideExplanation,
			Description: "Explain an educational topic at the requested difficulty in the session's preferred language.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {Type: genai.TypeString, Description: "Topic to explain."},
					"difficulty_level": {
						Type:        genai.TypeString,
						Description: "easy, medium or hard.",
						Enum:        []string{"easy", "medium", "hard"},
					},
				},
				Required: []string{"topic"},
			},
		},
		{
			Name:        ToolLocalizeText,
			Description: "Replace common educational terms with their Hindi equivalents.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"text":     {Type: genai.TypeString, Description: "Text to localize."},
					"language": {Type: genai.TypeString, Description: "Target language.", Enum: []string{string(qa.English), string(qa.Hindi)}},
				},
				Required: []string{"text", "language"},
			},
		},
	}
}

// Tool bundles the declarations for a GenerateContentConfig.
func (t *Toolset) Tool() *genai.Tool {
	return &genai.Tool{FunctionDeclarations: t.Declarations()}
}

// Call dispatches a function call against state and returns the tool's envelope.
func (t *Toolset) Call(ctx context.Context, state qa.SessionState, call *genai.FunctionCall) (*genai.FunctionResponse, error) {
	if call == nil {
		return nil, fmt.Errorf("%w: empty call", ErrInvalidArguments)
	}

	var (
		result any
		err    error
	)
	switch call.Name {
	case ToolAnswerQuestion:
		result, err = t.answer(ctx, state, call.Args)
	case ToolProvideExplanation:
		result, err = t.explain(ctx, state, call.Args)
	case ToolLocalizeText:
		result, err = t.localize(call.Args)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
	}
	if err != nil {
		return nil, err
	}

	response, err := toResponseMap(result)
	if err != nil {
		return nil, fmt.Errorf("encode %s response: %w", call.Name, err)
	}
	return &genai.FunctionResponse{ID: call.ID, Name: call.Name, Response: response}, nil
}

func (t *Toolset) answer(ctx context.Context, state qa.SessionState, args map[string]any) (any, error) {
	question, err := requiredStringArg(args, "question")
	if err != nil {
		return nil, err
	}
	return t.responder.Answer(ctx, question, state), nil
}

func (t *Toolset) explain(ctx context.Context, state qa.SessionState, args map[string]any) (any, error) {
	topic, err := requiredStringArg(args, "topic")
	if err != nil {
		return nil, err
	}
	difficulty, ok, err := stringArg(args, "difficulty_level")
	if err != nil {
		return nil, err
	}
	if !ok {
		difficulty = defaultDifficulty
	}
	return t.responder.Explain(ctx, topic, difficulty, state), nil
}

type localizeResult struct {
	Status   qa.Status   `json:"status"`
	Text     string      `json:"text"`
	Language qa.Language `json:"language"`
}

func (t *Toolset) localize(args map[string]any) (any, error) {
	text, err := requiredStringArg(args, "text")
	if err != nil {
		return nil, err
	}
	rawLang, err := requiredStringArg(args, "language")
	if err != nil {
		return nil, err
	}
	lang, ok := qa.ParseLanguage(rawLang)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported language %q", ErrInvalidArguments, rawLang)
	}
	return localizeResult{Status: qa.StatusSuccess, Text: qa.Localize(text, lang), Language: lang}, nil
}

// stringArg reports whether key is present; a JSON null counts as absent.
func stringArg(args map[string]any, key string) (string, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", false, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s must be a string", ErrInvalidArguments, key)
	}
	return value, true, nil
}

func requiredStringArg(args map[string]any, key string) (string, error) {
	value, ok, err := stringArg(args, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidArguments, key)
	}
	return value, nil
}

func toResponseMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
