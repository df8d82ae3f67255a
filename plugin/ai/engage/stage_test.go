package engage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageForDefaults(t *testing.T) {
	c := DefaultStageConfig()
	require.NoError(t, c.Validate())

	tests := []struct {
		turn int
		want Stage
	}{
		{1, StageEngagement},
		{3, StageEngagement},
		{4, StageProbing},
		{7, StageProbing},
		{8, StageExtraction},
		{12, StageExtraction},
		{13, StageTermination},
		{50, StageTermination},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.StageFor(tt.turn), "turn %d", tt.turn)
	}
}

func TestStageForIsMonotonic(t *testing.T) {
	c := DefaultStageConfig()
	order := map[Stage]int{
		StageEngagement:  0,
		StageProbing:     1,
		StageExtraction:  2,
		StageTermination: 3,
	}

	prev := c.StageFor(1)
	for turn := 2; turn <= 30; turn++ {
		cur := c.StageFor(turn)
		assert.GreaterOrEqual(t, order[cur], order[prev], "stage regressed at turn %d", turn)
		prev = cur
	}
}

func TestStageConfigValidate(t *testing.T) {
	bad := StageConfig{ProbingStart: 5, ExtractionStart: 5, TerminationStart: 9}
	assert.Error(t, bad.Validate())

	bad = StageConfig{ProbingStart: 1, ExtractionStart: 4, TerminationStart: 8}
	assert.Error(t, bad.Validate())

	good := StageConfig{ProbingStart: 3, ExtractionStart: 6, TerminationStart: 10}
	assert.NoError(t, good.Validate())
}

func TestTargetsForStage(t *testing.T) {
	assert.NotEmpty(t, TargetsFor(StageProbing))
	assert.Empty(t, TargetsFor(StageTermination), "termination stalls instead of extracting")
}
