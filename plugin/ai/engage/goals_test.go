package engage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/scambait/plugin/ai/intel"
)

func TestTrackProgress(t *testing.T) {
	extracted := map[intel.Kind][]string{
		intel.KindUPIID:       {"scammer@paytm"},
		intel.KindPhoneNumber: {"9876543210"},
	}

	p := TrackProgress(extracted, "digital_arrest")
	assert.ElementsMatch(t, []intel.Kind{intel.KindUPIID, intel.KindPhoneNumber}, p.Satisfied)
	assert.ElementsMatch(t, []intel.Kind{intel.KindBankAccount, intel.KindCaseNumber}, p.Missing)
	assert.InDelta(t, 50.0, p.Percent, 1e-9)
	assert.False(t, p.Complete())
	assert.Equal(t, intel.KindBankAccount, p.NextGoal())
}

func TestTrackProgressComplete(t *testing.T) {
	extracted := map[intel.Kind][]string{
		intel.KindUPIID:       {"a@paytm"},
		intel.KindPhoneNumber: {"9876543210"},
		intel.KindBankAccount: {"123456789"},
	}

	p := TrackProgress(extracted, "loan_fraud")
	assert.True(t, p.Complete())
	assert.Empty(t, p.NextGoal())
	assert.InDelta(t, 100.0, p.Percent, 1e-9)
}

func TestTrackProgressEmptyNeverComplete(t *testing.T) {
	p := TrackProgress(map[intel.Kind][]string{}, "default")
	assert.False(t, p.Complete(), "no intel at all must not count as done")
}

func TestTargetsForCategoryFallback(t *testing.T) {
	assert.Equal(t, TargetsForCategory("default"), TargetsForCategory("unheard_of_scam"))
	assert.Equal(t, TargetsForCategory("digital_arrest"), TargetsForCategory("Digital-Arrest"))
}

func TestExtractionStrategy(t *testing.T) {
	s := ExtractionStrategy(intel.KindUPIID, ToneAggressive, StageProbing, 5)
	assert.Contains(t, s, "AGGRESSIVE")
	assert.Contains(t, s, "upi")

	s = ExtractionStrategy("", ToneNeutral, StageProbing, 5)
	assert.Contains(t, s, "Stall")

	s = ExtractionStrategy(intel.KindBankAccount, ToneNeutral, StageTermination, 14)
	assert.Contains(t, s, "STALLING PHASE")
}

func TestStopChecker(t *testing.T) {
	c := NewStopChecker(20)

	payment := map[intel.Kind][]string{
		intel.KindUPIID:       {"x@paytm"},
		intel.KindPhoneNumber: {"9876543210"},
	}
	fourKinds := map[intel.Kind][]string{
		intel.KindURL:        {"http://bad.example"},
		intel.KindIFSCCode:   {"SBIN0001234"},
		intel.KindKeyword:    {"urgent"},
		intel.KindCaseNumber: {"CBI/1"},
	}

	tests := []struct {
		name      string
		turnCount int
		category  string
		extracted map[intel.Kind][]string
		want      bool
	}{
		{"max turns", 20, "default", nil, true},
		{"under max with nothing", 5, "default", nil, false},
		{"payment plus contact at six turns", 6, "default", payment, true},
		{"payment plus contact too early", 4, "default", payment, false},
		{"four kinds at eight turns", 8, "default", fourKinds, true},
		{"four kinds too early", 7, "default", fourKinds, false},
		{"all targets satisfied", 3, "romance_dating", map[intel.Kind][]string{
			intel.KindPhoneNumber: {"9876543210"},
			intel.KindBankAccount: {"123456789"},
			intel.KindUPIID:       {"x@okicici"},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := c.ShouldStop(tt.turnCount, tt.category, tt.extracted)
			assert.Equal(t, tt.want, got)
			if got {
				assert.NotEmpty(t, reason)
			}
		})
	}
}
