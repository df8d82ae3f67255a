// Package language routes messages into a detection mode based on the
// identified language. Messages in a supported language go through the
// normal pipeline with evidence retrieval; everything else runs in strict
// mode with tighter decision thresholds.
package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Mode is the detection regime for a message.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeStrict Mode = "strict"

	// Unknown is the language code when identification fails.
	Unknown = "unknown"

	// lowConfidence is the identification confidence below which the
	// language is treated as undetermined and routed to normal mode.
	lowConfidence = 0.6
)

// Detection is the routing result for one message.
type Detection struct {
	Language   string  // ISO 639-1 code, or "unknown"
	Confidence float64 // identification confidence in [0,1]
	Mode       Mode
}

// Detector identifies the message language and picks the detection mode.
type Detector struct {
	supported map[string]bool
}

// NewDetector creates a Detector. Supported language codes route to normal
// mode; the default set is {"en", "hi"}.
func NewDetector(supported []string) *Detector {
	if len(supported) == 0 {
		supported = []string{"en", "hi"}
	}
	m := make(map[string]bool, len(supported))
	for _, code := range supported {
		m[strings.ToLower(strings.TrimSpace(code))] = true
	}
	return &Detector{supported: m}
}

// Detect identifies text's language and routes it to a mode. Identification
// never fails: undetectable input is routed to normal mode as English with
// zero confidence, matching the knowledge base's default coverage.
func (d *Detector) Detect(text string) Detection {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Detection{Language: "en", Confidence: 0, Mode: ModeNormal}
	}

	info := whatlanggo.Detect(trimmed)
	return d.route(iso1Code(whatlanggo.LangToString(info.Lang)), info.Confidence)
}

// route picks the mode for an identified language. Low-confidence
// identification usually means short or mixed-script text and assumes the
// default language; a confidently identified but unrecognized language is
// treated like any other unsupported one and goes strict.
func (d *Detector) route(code string, conf float64) Detection {
	if conf < lowConfidence {
		return Detection{Language: "en", Confidence: conf, Mode: ModeNormal}
	}
	if d.supported[code] {
		return Detection{Language: code, Confidence: conf, Mode: ModeNormal}
	}
	return Detection{Language: code, Confidence: conf, Mode: ModeStrict}
}

// iso1Code maps whatlanggo's ISO 639-3 output to the two-letter codes used
// in configuration and prompts.
var iso3to1 = map[string]string{
	"eng": "en",
	"hin": "hi",
	"ben": "bn",
	"pan": "pa",
	"guj": "gu",
	"mar": "mr",
	"tam": "ta",
	"tel": "te",
	"kan": "kn",
	"mal": "ml",
	"urd": "ur",
	"spa": "es",
	"por": "pt",
	"fra": "fr",
	"deu": "de",
	"rus": "ru",
	"ara": "ar",
	"cmn": "zh",
	"jpn": "ja",
	"kor": "ko",
	"vie": "vi",
	"ind": "id",
	"tha": "th",
	"tur": "tr",
	"nld": "nl",
	"ita": "it",
}

func iso1Code(iso3 string) string {
	if code, ok := iso3to1[iso3]; ok {
		return code
	}
	if iso3 == "" {
		return Unknown
	}
	// Unmapped languages still route to strict mode under their 639-3 code.
	return iso3
}
