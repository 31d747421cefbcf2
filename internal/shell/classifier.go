package shell

import (
	"fmt"
	"strings"
)

// trigger matches a prompt when either the raw prompt contains native or the
// lower-cased prompt contains latin.
type trigger struct {
	native string
	latin  string
	reply  string
}

var triggers = []trigger{
	{
		native: "नमस्ते",
		latin:  "hello",
		reply:  "नमस्ते! आपका स्वागत है। मैं आपकी कैसे मदद कर सकता हूं? (Hello! Welcome. How can I help you?)",
	},
	{
		native: "पावनी",
		latin:  "pavani",
		reply:  "नमस्ते पावनी! आपका स्वागत है। मैं आपकी शिक्षा में कैसे मदद कर सकता हूं? (Hello Pavani! Welcome. How can I help you with your education?)",
	},
	{
		native: "उपस्थिति",
		latin:  "attendance",
		reply:  "I can help you with attendance management. Please provide student details.",
	},
	{
		native: "मूल्यांकन",
		latin:  "evaluation",
		reply:  "I can help you with student evaluations. What type of evaluation do you need?",
	},
	{
		native: "विज़ुअलाइज़ेशन",
		latin:  "visualization",
		reply:  "I can create educational visualizations. What topic would you like to visualize?",
	},
	{
		native: "मदद",
		latin:  "help",
		reply:  "I can help you with:\n- Attendance management\n- Student evaluations\n- Educational visualizations\n- Learning paths\n- Progress analysis\n- Resource recommendations",
	},
}

const fallbackReply = "Thank you for your message: '%s'. I'm here to help with educational tasks. You can ask me about attendance, evaluations, visualizations, or any other educational content."

// Classifier maps chat prompts to canned replies. It keeps no state.
type Classifier struct{}

// NewClassifier returns the chat shell classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Reply returns the reply for the first matching trigger, or an echo of prompt.
func (c *Classifier) Reply(prompt string) (reply string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("classify prompt: %v", rec)
		}
	}()

	lowered := strings.ToLower(prompt)
	for _, t := range triggers {
		if strings.Contains(prompt, t.native) || strings.Contains(lowered, t.latin) {
			return t.reply, nil
		}
	}
	return fmt.Sprintf(fallbackReply, prompt), nil
}
