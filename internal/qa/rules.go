package qa

import (
	"fmt"
	"strings"
)

// Bucket is the topic category a question was routed to.
type Bucket string

const (
	BucketMath     Bucket = "math"
	BucketScience  Bucket = "science"
	BucketIdentity Bucket = "identity"
	BucketGeneral  Bucket = "general"
)

type rule struct {
	bucket   Bucket
	keywords []string
	answer   string
}

type ruleSet struct {
	rules []rule
	// fallback is a format string receiving the original question.
	fallback string
}

var answerRules = map[Language]ruleSet{
	Hindi: {
		rules: []rule{
			{
				bucket:   BucketMath,
				keywords: []string{"गणित", "math", "mathematics"},
				answer:   "गणित एक बहुत महत्वपूर्ण विषय है। मैं इसमें आपकी सहायता कर सकता हूं। कृपया अपना विशिष्ट प्रश्न बताएं।",
			},
			{
				bucket:   BucketScience,
				keywords: []string{"विज्ञान", "science"},
				answer:   "विज्ञान हमारे चारों ओर की दुनिया को समझने में मदद करता है। आपका कौन सा विज्ञान का प्रश्न है?",
			},
			{
				bucket:   BucketIdentity,
				keywords: []string{"नाम", "name", "परिचय"},
				answer:   "मैं सहायक शिक्षा एजेंट का QA सहायक हूं। मैं शिक्षा संबंधी सभी प्रश्नों का उत्तर दे सकता हूं।",
			},
		},
		fallback: "आपका प्रश्न '%s' के लिए, मैं विस्तृत और सहायक उत्तर प्रदान कर सकता हूं। कृपया अधिक विशिष्ट जानकारी दें ताकि मैं बेहतर सहायता कर सकूं।",
	},
	English: {
		rules: []rule{
			{
				bucket:   BucketMath,
				keywords: []string{"math", "mathematics", "calculation"},
				answer:   "Mathematics is a fundamental subject that builds logical thinking. I can help you with various math topics. Please specify your exact question.",
			},
			{
				bucket:   BucketScience,
				keywords: []string{"science", "physics", "chemistry", "biology"},
				answer:   "Science helps us understand the world around us. Which specific science topic would you like help with?",
			},
			{
				bucket:   BucketIdentity,
				keywords: []string{"name", "who are you", "introduction"},
				answer:   "I'm the QA assistant of Sahayak Educational Agent. I can answer all educational questions and provide detailed explanations.",
			},
		},
		fallback: "For your question '%s', I can provide a detailed and helpful response. Please provide more specific information so I can assist you better.",
	},
}

// Classify routes question to the first matching bucket for lang.
func Classify(question string, lang Language) Bucket {
	bucket, _ := route(question, lang)
	return bucket
}

func route(question string, lang Language) (Bucket, string) {
	set, ok := answerRules[lang]
	if !ok {
		set = answerRules[English]
	}
	lowered := lower(question)
	for _, r := range set.rules {
		if containsAny(lowered, r.keywords) {
			return r.bucket, r.answer
		}
	}
	return BucketGeneral, fmt.Sprintf(set.fallback, question)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

type explanationTemplates struct {
	easy, hard, medium string
}

var explanations = map[Language]explanationTemplates{
	Hindi: {
		easy:   "%s का सरल विवरण: यह एक महत्वपूर्ण विषय है जिसे समझना आवश्यक है। मैं इसे आसान तरीके से समझा सकता हूं।",
		hard:   "%s का उन्नत विवरण: यह एक जटिल विषय है जिसके लिए गहरी समझ की आवश्यकता है।",
		medium: "%s का विस्तृत विवरण: यह विषय मध्यम स्तर का है और उचित अध्ययन से समझा जा सकता है।",
	},
	English: {
		easy:   "Simple explanation of %s: This is an important topic that needs to be understood. I can explain it in an easy way.",
		hard:   "Advanced explanation of %s: This is a complex topic that requires deep understanding.",
		medium: "Detailed explanation of %s: This is a medium-level topic that can be understood with proper study.",
	},
}

func explain(topic, difficulty string, lang Language) string {
	tmpl, ok := explanations[lang]
	if !ok {
		tmpl = explanations[English]
	}
	switch lower(difficulty) {
	case "easy":
		return fmt.Sprintf(tmpl.easy, topic)
	case "hard":
		return fmt.Sprintf(tmpl.hard, topic)
	default:
		return fmt.Sprintf(tmpl.medium, topic)
	}
}
