// Package engage drives the deceptive conversation once a sender is
// classified as a scammer: stage progression, persona behavior, extraction
// goals and reply generation.
package engage

import (
	"github.com/pkg/errors"

	"github.com/hrygo/scambait/plugin/ai/intel"
)

// Stage is the conversation phase, derived purely from the turn count.
type Stage string

const (
	StageEngagement  Stage = "engagement"
	StageProbing     Stage = "probing"
	StageExtraction  Stage = "extraction"
	StageTermination Stage = "termination"
)

// StageConfig holds the first turn of each later stage. Turns below
// ProbingStart are engagement.
type StageConfig struct {
	ProbingStart     int
	ExtractionStart  int
	TerminationStart int
}

// DefaultStageConfig is engagement 1-3, probing 4-7, extraction 8-12,
// termination 13+.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		ProbingStart:     4,
		ExtractionStart:  8,
		TerminationStart: 13,
	}
}

// Validate checks that the stage boundaries are ordered so StageFor is
// monotonic over contiguous turn counts.
func (c StageConfig) Validate() error {
	if c.ProbingStart < 2 {
		return errors.New("probing must start after at least one engagement turn")
	}
	if c.ExtractionStart <= c.ProbingStart || c.TerminationStart <= c.ExtractionStart {
		return errors.New("stage boundaries must be strictly increasing")
	}
	return nil
}

// StageFor maps a turn count to its stage. It is a pure function; the
// session layer guarantees turn counts only move forward.
func (c StageConfig) StageFor(turnCount int) Stage {
	switch {
	case turnCount >= c.TerminationStart:
		return StageTermination
	case turnCount >= c.ExtractionStart:
		return StageExtraction
	case turnCount >= c.ProbingStart:
		return StageProbing
	default:
		return StageEngagement
	}
}

// stageBrief describes the behavior and conversational goal of a stage for
// prompt construction.
type stageBrief struct {
	behavior string
	goal     string
	targets  []intel.Kind
}

var stageBriefs = map[Stage]stageBrief{
	StageEngagement: {
		behavior: "First contact. Confused, scared (if threatened) or excited (if promised something), asking basic questions.",
		goal:     "Understand the situation, show a believable initial reaction, get them to explain more.",
		targets:  []intel.Kind{intel.KindPhoneNumber, intel.KindImpersonatedAuthority},
	},
	StageProbing: {
		behavior: "Convinced and ready to act, asking HOW to comply. Willing but slightly clumsy.",
		goal:     "Extract payment identifiers and contact details.",
		targets:  []intel.Kind{intel.KindUPIID, intel.KindBankAccount, intel.KindPhoneNumber},
	},
	StageExtraction: {
		behavior: "Actively trying to comply but hitting believable technical problems, asking for alternatives.",
		goal:     "Extract additional payment methods, links and backup contact information.",
		targets:  []intel.Kind{intel.KindBankAccount, intel.KindIFSCCode, intel.KindURL, intel.KindUPIID, intel.KindCaseNumber},
	},
	StageTermination: {
		behavior: "Tired, slow, distracted. Stalling with household excuses.",
		goal:     "Waste the scammer's remaining time before a graceful exit.",
		targets:  nil,
	},
}

// TargetsFor returns the intel kinds a stage prioritizes in prompts. The
// list only biases the reply; extraction itself runs on every turn
// regardless of stage.
func TargetsFor(stage Stage) []intel.Kind {
	return stageBriefs[stage].targets
}
