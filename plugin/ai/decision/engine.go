// Package decision applies the threshold rules that turn a judge verdict
// into an action. The engine is a pure function; all state lives in the
// session layer.
package decision

import (
	"github.com/hrygo/scambait/plugin/ai/judge"
	"github.com/hrygo/scambait/plugin/ai/language"
)

// Action is the decision for one message.
type Action string

const (
	ActionEngage Action = "engage"
	ActionProbe  Action = "probe"
	ActionIgnore Action = "ignore"
)

// Thresholds holds the per-mode confidence cut-offs. All boundaries are
// upper-inclusive: confidence exactly at a threshold takes the higher
// branch.
type Thresholds struct {
	NormalEngage float64
	NormalProbe  float64
	StrictEngage float64
	StrictProbe  float64
}

// DefaultThresholds are the deployed defaults: 0.70/0.50 normal,
// 0.85/0.70 strict.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NormalEngage: 0.70,
		NormalProbe:  0.50,
		StrictEngage: 0.85,
		StrictProbe:  0.70,
	}
}

// Decision is the engine output to persist on the session.
type Decision struct {
	Action     Action
	Category   string
	Confidence float64
	RedFlags   []string
	Reasoning  string
}

// Engine decides engage/probe/ignore from (mode, verdict).
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an Engine with the given thresholds.
func NewEngine(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// Decide maps a verdict to an action. A not-scam verdict always ignores,
// regardless of confidence. Strict mode additionally gates on the number
// of independent red flags: at least 3 to engage, at least 2 to probe.
func (e *Engine) Decide(mode language.Mode, v judge.Verdict) Decision {
	d := Decision{
		Action:     ActionIgnore,
		Category:   v.Category,
		Confidence: v.Confidence,
		RedFlags:   v.RedFlags,
		Reasoning:  v.Reasoning,
	}
	if !v.IsScam {
		return d
	}

	if mode == language.ModeStrict {
		flags := len(v.RedFlags)
		switch {
		case v.Confidence >= e.thresholds.StrictEngage && flags >= 3:
			d.Action = ActionEngage
		case v.Confidence >= e.thresholds.StrictProbe && v.Confidence < e.thresholds.StrictEngage && flags >= 2:
			d.Action = ActionProbe
		}
		return d
	}

	switch {
	case v.Confidence >= e.thresholds.NormalEngage:
		d.Action = ActionEngage
	case v.Confidence >= e.thresholds.NormalProbe:
		d.Action = ActionProbe
	}
	return d
}
