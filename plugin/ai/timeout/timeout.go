// Package timeout defines centralized timeout constants for AI operations.
package timeout

import "time"

const (
	// TurnBudget is how long a whole message turn may take. The external
	// evaluator drops responses after 30 seconds, so we keep a margin for
	// serialization and network transit.
	TurnBudget = 25 * time.Second

	// JudgeTimeout is the timeout for a single scam-judgment LLM call.
	JudgeTimeout = 12 * time.Second

	// ReplyTimeout is the timeout for a single reply-generation LLM call.
	ReplyTimeout = 10 * time.Second

	// EmbeddingTimeout is the timeout for embedding generation.
	EmbeddingTimeout = 5 * time.Second

	// RetrievalTimeout is the timeout for the vector similarity search.
	RetrievalTimeout = 3 * time.Second

	// CallbackTimeout is the timeout for the final report callback POST.
	CallbackTimeout = 5 * time.Second

	// MaxTruncateLength is the maximum length for truncating strings in logs.
	MaxTruncateLength = 200
)
