package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/hrygo/scambait/plugin/ai/timeout"
)

// Notifier delivers final reports to the external evaluator endpoint.
type Notifier interface {
	Notify(ctx context.Context, r Report) error
}

// CallbackNotifier posts reports as JSON to a configured callback URL,
// authenticated with an x-api-key header. Outbound calls share a rate
// limiter so a burst of finalizations cannot hammer the evaluator.
type CallbackNotifier struct {
	url     string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

var _ Notifier = (*CallbackNotifier)(nil)

// NewCallbackNotifier creates a notifier for the given endpoint. An empty
// URL yields a notifier whose Notify is a logged no-op, so callers do not
// special-case unconfigured callbacks.
func NewCallbackNotifier(url, apiKey string) *CallbackNotifier {
	return &CallbackNotifier{
		url:     url,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout.CallbackTimeout},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (n *CallbackNotifier) Notify(ctx context.Context, r Report) error {
	if n.url == "" {
		slog.Info("no callback url configured, report not delivered",
			"session_id", r.SessionID, "report_id", r.ReportID)
		return nil
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "callback rate limit wait")
	}

	body, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout.CallbackTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build callback request")
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("x-api-key", n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post report callback")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("report callback returned status %d", resp.StatusCode)
	}

	slog.Info("report delivered",
		"session_id", r.SessionID,
		"report_id", r.ReportID,
		"items", r.ExtractedIntelligence.Count())
	return nil
}
