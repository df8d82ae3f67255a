// Package engine runs the per-turn pipeline: pre-screen, detection or
// engagement, intelligence extraction, reply generation, stop checking and
// finalization. One turn per session id at a time; distinct sessions run
// concurrently under a global in-flight bound.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/scambait/plugin/ai"
	"github.com/hrygo/scambait/plugin/ai/decision"
	"github.com/hrygo/scambait/plugin/ai/engage"
	"github.com/hrygo/scambait/plugin/ai/evidence"
	"github.com/hrygo/scambait/plugin/ai/intel"
	"github.com/hrygo/scambait/plugin/ai/judge"
	"github.com/hrygo/scambait/plugin/ai/language"
	"github.com/hrygo/scambait/plugin/ai/report"
	"github.com/hrygo/scambait/plugin/ai/session"
	"github.com/hrygo/scambait/plugin/ai/timeout"
)

// maxConcurrentTurns bounds in-flight turns across all sessions.
const maxConcurrentTurns = 64

// Options wires the engine's collaborators. Store is required; LLM,
// Embedder and Notifier default from Config when nil, and a nil LLM leaves
// the judge and reply generator on their fallback paths.
type Options struct {
	Config   *ai.Config
	Store    session.Store
	Searcher evidence.Searcher
	LLM      ai.LLMService
	Embedder ai.EmbeddingService
	Notifier report.Notifier
	Stages   engage.StageConfig
}

// Engine is the pipeline entry point.
type Engine struct {
	store     session.Store
	locker    *session.Locker
	detector  *language.Detector
	retriever *evidence.Retriever
	judge     *judge.Judge
	decider   *decision.Engine
	extractor *intel.Extractor
	generator *engage.Generator
	stages    engage.StageConfig
	stop      *engage.StopChecker
	notifier  report.Notifier
	sem       *semaphore.Weighted
}

// New builds an engine from options.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &ai.Config{}
	}

	llm := opts.LLM
	if llm == nil && len(cfg.LLMs) > 0 {
		chain, err := ai.NewLLMChain(cfg.LLMs)
		if err != nil {
			return nil, err
		}
		llm = chain
	}

	embedder := opts.Embedder
	if embedder == nil && cfg.HasEmbedding() {
		e, err := ai.NewEmbeddingService(&cfg.Embedding)
		if err != nil {
			slog.Warn("embedding service unavailable, evidence retrieval disabled", "error", err)
		} else {
			embedder = e
		}
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = report.NewCallbackNotifier(cfg.Callback.URL, cfg.Callback.APIKey)
	}

	store := opts.Store
	if store == nil {
		store = session.NewMemoryStore()
	}

	stages := opts.Stages
	if err := stages.Validate(); err != nil {
		stages = engage.DefaultStageConfig()
	}

	thresholds := decision.Thresholds{
		NormalEngage: cfg.Detection.NormalEngageThreshold,
		NormalProbe:  cfg.Detection.NormalProbeThreshold,
		StrictEngage: cfg.Detection.StrictEngageThreshold,
		StrictProbe:  cfg.Detection.StrictProbeThreshold,
	}
	if thresholds.NormalEngage <= 0 {
		thresholds = decision.DefaultThresholds()
	}

	extractor := intel.NewExtractor()
	return &Engine{
		store:     store,
		locker:    session.NewLocker(),
		detector:  language.NewDetector(cfg.Detection.SupportedLanguages),
		retriever: evidence.NewRetriever(embedder, opts.Searcher, evidence.DefaultK),
		judge:     judge.NewJudge(llm, extractor),
		decider:   decision.NewEngine(thresholds),
		extractor: extractor,
		generator: engage.NewGenerator(llm),
		stages:    stages,
		stop:      engage.NewStopChecker(cfg.Engage.MaxTurns),
		notifier:  notifier,
		sem:       semaphore.NewWeighted(maxConcurrentTurns),
	}, nil
}

// HandleTurn processes one inbound scammer message. It never returns a
// degraded provider state as an error; every pipeline stage has a defined
// fallback and the response always carries the full envelope.
func (e *Engine) HandleTurn(ctx context.Context, req *TurnRequest) *TurnResponse {
	trace := uuid.NewString()

	text := ""
	sender := ""
	at := time.Time{}
	if req != nil {
		text = strings.TrimSpace(req.Message.Text)
		sender = req.Message.Sender
		at = req.Message.ParsedTimestamp()
	}
	if req == nil || req.SessionID == "" || text == "" {
		slog.Debug("rejected malformed turn", "trace_id", trace)
		return MalformedResponse()
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return errorResponse("service busy")
	}
	defer e.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, timeout.TurnBudget)
	defer cancel()

	unlock := e.locker.Lock(req.SessionID)
	defer unlock()

	s, err := e.store.Get(ctx, req.SessionID)
	if err != nil {
		slog.Error("session load failed", "trace_id", trace, "session_id", req.SessionID, "error", err)
		return errorResponse("session unavailable")
	}
	if s == nil {
		s = session.New(req.SessionID)
		seedHistory(s, req.ConversationHistory)
	}

	if s.IsComplete() {
		slog.Debug("turn for completed session", "trace_id", trace, "session_id", s.ID)
		return endedResponse(s)
	}

	s.NextTurn()
	// Extraction is unconditional and passive every turn, whatever the
	// stage or decision outcome.
	s.MergeIntel(e.extractor.Extract(text))

	var action Action
	var reply string
	if !s.ScamDetected {
		action, reply = e.detect(ctx, s, text, trace)
	} else {
		action, reply = e.continueEngagement(ctx, s, text, trace)
	}
	s.AppendExchange(sender, text, reply, at)

	notes := e.maybeFinalize(ctx, s, trace)

	if err := e.store.Save(ctx, s); err != nil {
		slog.Error("session save failed", "trace_id", trace, "session_id", s.ID, "error", err)
	}

	slog.Debug("turn complete",
		"trace_id", trace,
		"session_id", s.ID,
		"turn", s.TurnCount,
		"action", action,
		"stage", s.Stage,
		"intel_items", intelCount(s.Intel))

	resp := envelope(s, action, reply)
	if notes != "" {
		resp.AgentNotes = notes
	}
	return resp
}

// detect runs the detection path: language routing, evidence retrieval in
// normal mode, judgment and the threshold decision.
func (e *Engine) detect(ctx context.Context, s *session.Session, text, trace string) (Action, string) {
	det := e.detector.Detect(text)

	var patterns []evidence.Pattern
	if det.Mode == language.ModeNormal {
		patterns = e.retriever.Retrieve(ctx, text)
	}

	v := e.judge.Judge(ctx, text, det.Language, det.Mode, patterns)
	d := e.decider.Decide(det.Mode, v)

	slog.Debug("detection verdict",
		"trace_id", trace,
		"session_id", s.ID,
		"language", det.Language,
		"mode", det.Mode,
		"is_scam", v.IsScam,
		"confidence", v.Confidence,
		"fallback", v.Fallback,
		"action", d.Action)

	if d.Action == decision.ActionIgnore {
		return ActionIgnore, ""
	}

	s.MarkDetected(det.Mode, det.Language, d.Category, d.Confidence, d.RedFlags, d.Reasoning, e.stages)
	reply := e.generator.Generate(ctx, e.replyRequest(s, text))
	if d.Action == decision.ActionEngage {
		return ActionEngage, reply
	}
	return ActionProbe, reply
}

// continueEngagement runs one more turn of an already-detected scam.
func (e *Engine) continueEngagement(ctx context.Context, s *session.Session, text, trace string) (Action, string) {
	s.AdvanceStage(e.stages)
	reply := e.generator.Generate(ctx, e.replyRequest(s, text))
	return ActionContinue, reply
}

func (e *Engine) replyRequest(s *session.Session, text string) engage.ReplyRequest {
	return engage.ReplyRequest{
		Persona:       s.Persona(),
		Stage:         s.Stage,
		Category:      s.Category,
		Reasoning:     s.Reasoning,
		RedFlags:      s.RedFlags,
		History:       s.ChatHistory(),
		LatestMessage: text,
		Intel:         s.Intel,
		TurnCount:     s.TurnCount,
		LastReply:     s.LastReply(),
	}
}

// maybeFinalize evaluates stop conditions and, when one fires, freezes the
// session and emits the report exactly once. It returns the report's agent
// notes so the closing response carries the summary.
func (e *Engine) maybeFinalize(ctx context.Context, s *session.Session, trace string) string {
	var stopReason string
	if s.ScamDetected {
		stop, reason := e.stop.ShouldStop(s.TurnCount, s.Category, s.Intel)
		if !stop {
			return ""
		}
		stopReason = reason
	} else {
		if s.TurnCount < e.stop.MaxTurns() {
			return ""
		}
		stopReason = "maximum turn count reached without detection"
	}

	s.Complete()
	slog.Info("session finalized",
		"trace_id", trace,
		"session_id", s.ID,
		"turns", s.TurnCount,
		"reason", stopReason)
	return e.emitReport(ctx, s, stopReason)
}

// emitReport delivers the final report at most once per session. Delivery
// failure is logged, not retried; the reported flag still flips so a later
// turn can never double-emit.
func (e *Engine) emitReport(ctx context.Context, s *session.Session, stopReason string) string {
	if s.Reported {
		return ""
	}
	s.Reported = true

	r := report.Build(s, stopReason)
	if err := e.notifier.Notify(ctx, r); err != nil {
		slog.Error("report delivery failed", "session_id", s.ID, "report_id", r.ReportID, "error", err)
	}
	return r.AgentNotes
}

// EndSession is the explicit external override stop condition: it finalizes
// an active session immediately and emits its report. Ending an unknown id
// is an error; ending a completed session is a no-op.
func (e *Engine) EndSession(ctx context.Context, id, reason string) (*report.Report, error) {
	unlock := e.locker.Lock(id)
	defer unlock()

	s, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, session.ErrNotFound
	}
	if s.IsComplete() && s.Reported {
		return nil, session.ErrComplete
	}
	if reason == "" {
		reason = "external override"
	}

	s.Complete()
	r := report.Build(s, reason)
	if !s.Reported {
		s.Reported = true
		if err := e.notifier.Notify(ctx, r); err != nil {
			slog.Error("report delivery failed", "session_id", s.ID, "report_id", r.ReportID, "error", err)
		}
	}
	if err := e.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return &r, nil
}

func seedHistory(s *session.Session, prior []HistoryEntry) {
	for _, h := range prior {
		if strings.TrimSpace(h.Text) == "" {
			continue
		}
		sender := h.Sender
		if sender == "" {
			sender = "scammer"
		}
		s.History = append(s.History, session.Message{
			Sender:    sender,
			Text:      h.Text,
			Timestamp: time.Now(),
		})
	}
}

func intelCount(m map[intel.Kind][]string) int {
	n := 0
	for _, vs := range m {
		n += len(vs)
	}
	return n
}
