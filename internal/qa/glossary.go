package qa

import "strings"

type term struct {
	english string
	hindi   string
}

// glossary is applied top to bottom; later entries see earlier replacements.
var glossary = []term{
	{"Student", "छात्र"},
	{"Teacher", "शिक्षक"},
	{"Question", "प्रश्न"},
	{"Answer", "उत्तर"},
	{"Subject", "विषय"},
	{"Mathematics", "गणित"},
	{"Science", "विज्ञान"},
	{"History", "इतिहास"},
	{"Geography", "भूगोल"},
	{"English", "अंग्रेजी"},
	{"Hindi", "हिंदी"},
	{"Physics", "भौतिक विज्ञान"},
	{"Chemistry", "रसायन विज्ञान"},
	{"Biology", "जीव विज्ञान"},
	{"Computer Science", "कंप्यूटर साइंस"},
	{"Thank you", "धन्यवाद"},
	{"Welcome", "स्वागत"},
	{"Help", "सहायता"},
	{"Learning", "शिक्षा"},
	{"Education", "शिक्षा"},
}

// Localize substitutes glossary terms for Hindi and returns text unchanged for any other language.
func Localize(text string, target Language) string {
	if target != Hindi {
		return text
	}
	for _, t := range glossary {
		text = strings.ReplaceAll(text, t.english, t.hindi)
	}
	return text
}
