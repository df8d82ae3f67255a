package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEnglishRoutesNormal(t *testing.T) {
	d := NewDetector(nil)

	det := d.Detect("Your bank account has been suspended, please verify your details immediately to avoid permanent closure.")
	assert.Equal(t, "en", det.Language)
	assert.Equal(t, ModeNormal, det.Mode)
}

func TestDetectHindiRoutesNormal(t *testing.T) {
	d := NewDetector([]string{"en", "hi"})

	det := d.Detect("आपका बैंक खाता निलंबित कर दिया गया है, कृपया तुरंत अपना विवरण सत्यापित करें अन्यथा खाता बंद हो जाएगा।")
	assert.Equal(t, "hi", det.Language)
	assert.Equal(t, ModeNormal, det.Mode)
}

func TestDetectUnsupportedLanguageRoutesStrict(t *testing.T) {
	d := NewDetector([]string{"en"})

	det := d.Detect("Ваш банковский счет был заблокирован, пожалуйста, немедленно подтвердите свои данные, иначе счет будет закрыт навсегда.")
	if det.Confidence >= 0.6 {
		assert.Equal(t, ModeStrict, det.Mode)
		assert.Equal(t, "ru", det.Language)
	} else {
		assert.Equal(t, ModeNormal, det.Mode)
	}
}

func TestRouteUnknownLanguageByConfidence(t *testing.T) {
	d := NewDetector(nil)

	// Confidently identified but unrecognized goes strict like any other
	// unsupported language.
	det := d.route(Unknown, 0.9)
	assert.Equal(t, ModeStrict, det.Mode)
	assert.Equal(t, Unknown, det.Language)

	det = d.route(Unknown, 0.2)
	assert.Equal(t, ModeNormal, det.Mode)
	assert.Equal(t, "en", det.Language)
}

func TestDetectEmptyTextDefaultsNormalEnglish(t *testing.T) {
	d := NewDetector(nil)

	det := d.Detect("   ")
	assert.Equal(t, "en", det.Language)
	assert.Equal(t, ModeNormal, det.Mode)
	assert.Zero(t, det.Confidence)
}

func TestDetectShortAmbiguousTextDefaultsNormal(t *testing.T) {
	d := NewDetector(nil)

	// Single-token input carries too little signal; identification must
	// still produce a usable routing decision without failing.
	det := d.Detect("ok")
	assert.NotEmpty(t, det.Language)
	if det.Confidence < 0.6 {
		assert.Equal(t, ModeNormal, det.Mode)
		assert.Equal(t, "en", det.Language)
	}
}
