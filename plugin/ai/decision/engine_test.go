package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/scambait/plugin/ai/judge"
	"github.com/hrygo/scambait/plugin/ai/language"
)

func flags(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "flag"
	}
	return out
}

func TestDecideNormalMode(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	tests := []struct {
		name       string
		isScam     bool
		confidence float64
		want       Action
	}{
		{"engage at boundary", true, 0.70, ActionEngage},
		{"probe just below engage", true, 0.69, ActionProbe},
		{"probe at boundary", true, 0.50, ActionProbe},
		{"ignore just below probe", true, 0.49, ActionIgnore},
		{"high confidence engage", true, 0.99, ActionEngage},
		{"not scam forces ignore", false, 0.99, ActionIgnore},
		{"zero confidence", true, 0, ActionIgnore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Decide(language.ModeNormal, judge.Verdict{
				IsScam:     tt.isScam,
				Confidence: tt.confidence,
			})
			assert.Equal(t, tt.want, d.Action)
		})
	}
}

func TestDecideStrictMode(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	tests := []struct {
		name       string
		isScam     bool
		confidence float64
		flagCount  int
		want       Action
	}{
		{"engage with enough flags", true, 0.90, 3, ActionEngage},
		{"high confidence but only two flags", true, 0.90, 2, ActionIgnore},
		{"probe band with two flags", true, 0.75, 2, ActionProbe},
		{"probe band with one flag", true, 0.75, 1, ActionIgnore},
		{"engage boundary", true, 0.85, 3, ActionEngage},
		{"probe boundary", true, 0.70, 2, ActionProbe},
		{"below probe threshold", true, 0.69, 5, ActionIgnore},
		{"not scam forces ignore", false, 0.95, 5, ActionIgnore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Decide(language.ModeStrict, judge.Verdict{
				IsScam:     tt.isScam,
				Confidence: tt.confidence,
				RedFlags:   flags(tt.flagCount),
			})
			assert.Equal(t, tt.want, d.Action)
		})
	}
}

func TestDecideCarriesVerdictFields(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	d := e.Decide(language.ModeNormal, judge.Verdict{
		IsScam:     true,
		Confidence: 0.8,
		Category:   "digital_arrest",
		Reasoning:  "impersonation with payment demand",
		RedFlags:   []string{"urgency", "threat"},
	})
	assert.Equal(t, ActionEngage, d.Action)
	assert.Equal(t, "digital_arrest", d.Category)
	assert.InDelta(t, 0.8, d.Confidence, 1e-9)
	assert.Equal(t, []string{"urgency", "threat"}, d.RedFlags)
}
