package engage

import (
	"fmt"

	"github.com/hrygo/scambait/plugin/ai/intel"
)

// StopChecker evaluates whether a conversation has served its purpose.
type StopChecker struct {
	maxTurns int
}

// NewStopChecker creates a StopChecker with the given hard turn limit.
func NewStopChecker(maxTurns int) *StopChecker {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &StopChecker{maxTurns: maxTurns}
}

// MaxTurns returns the hard turn limit.
func (c *StopChecker) MaxTurns() int {
	return c.maxTurns
}

// ShouldStop reports whether to finalize the session, with a reason for
// the report. Conditions, any one sufficient:
//  1. the hard turn limit is reached;
//  2. every extraction target for the category is satisfied;
//  3. eight or more turns with at least four distinct intel kinds;
//  4. six or more turns with both a payment identifier and a contact
//     number in hand.
func (c *StopChecker) ShouldStop(turnCount int, category string, extracted map[intel.Kind][]string) (bool, string) {
	if turnCount >= c.maxTurns {
		return true, fmt.Sprintf("max turns reached (%d)", turnCount)
	}

	progress := TrackProgress(extracted, category)
	if progress.Complete() {
		return true, fmt.Sprintf("all extraction targets satisfied (%.0f%%)", progress.Percent)
	}

	if turnCount >= 8 {
		kinds := 0
		for _, values := range extracted {
			if len(values) > 0 {
				kinds++
			}
		}
		if kinds >= 4 {
			return true, fmt.Sprintf("good extraction coverage (%d intel kinds)", kinds)
		}
	}

	if turnCount >= 6 {
		hasPayment := len(extracted[intel.KindUPIID]) > 0 || len(extracted[intel.KindBankAccount]) > 0
		hasContact := len(extracted[intel.KindPhoneNumber]) > 0
		if hasPayment && hasContact {
			return true, "core intelligence gathered (payment + contact)"
		}
	}

	return false, ""
}
