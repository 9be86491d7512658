// Package jobqueue publishes internal jobs through Upstash QStash, which
// calls back into this service's /v1/internal/jobs endpoints.
package jobqueue

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const InternalJobTokenHeader = "X-Internal-Job-Token"

var errQStashTransient = crerr.New("qstash transient failure")

type Config struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	Breaker          resilience.BreakerConfig
}

type QStashPublisher struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	breaker          *resilience.Breaker
	logger           *logging.Logger
}

func NewQStashPublisher(cfg Config, logger *logging.Logger) *QStashPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &QStashPublisher{
		client:           &http.Client{Timeout: timeout},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		breaker:          resilience.NewBreaker(cfg.Breaker),
		logger:           logger.Named("jobqueue.qstash"),
	}
}

// Enqueue asks QStash to POST payload to path on this service after delay.
// A non-blank dedupID lets QStash drop repeats of the same job.
func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, dedupID string) error {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return crerr.New("job path is required")
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := jsoniter.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal job payload")
	}

	msg := message{
		publishURL: baseURL + "/v2/publish/" + targetBaseURL + path,
		targetURL:  targetBaseURL + path,
		path:       path,
		body:       body,
		delay:      normalizeDelay(delay),
		retries:    p.retries,
		dedupID:    strings.TrimSpace(dedupID),
		forward:    p.internalJobToken != "",
	}

	preview := msg.curlPreview()
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", msg.targetURL),
			attribute.String("qstash.path", path),
			attribute.String("qstash.dedup_id", msg.dedupID),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request", "path", path, "curl_preview", preview)

	err = p.breaker.Execute(func() error {
		return p.publish(ctx, msg)
	}, isCircuitFailure)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", p.breaker.State(), "path", path)
			return fmt.Errorf("qstash is temporarily unavailable: %w", err)
		}
		return err
	}

	p.logger.InfoContext(ctx, "qstash job published", "path", path, "delay", msg.delay, "deduplication_id", msg.dedupID)
	return nil
}

type message struct {
	publishURL string
	targetURL  string
	path       string
	body       []byte
	delay      string
	retries    int
	dedupID    string
	forward    bool
}

func (m message) headers(token, jobToken string) map[string]string {
	out := map[string]string{
		"Authorization":  "Bearer " + token,
		"Content-Type":   "application/json",
		"Upstash-Method": http.MethodPost,
	}
	if m.retries > 0 {
		out["Upstash-Retries"] = strconv.Itoa(m.retries)
	}
	if m.delay != "0s" {
		out["Upstash-Delay"] = m.delay
	}
	if m.dedupID != "" {
		out["Upstash-Deduplication-Id"] = m.dedupID
	}
	if m.forward {
		out["Upstash-Forward-"+InternalJobTokenHeader] = jobToken
	}
	return out
}

func (p *QStashPublisher) publish(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, msg.publishURL, strings.NewReader(string(msg.body)))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	for key, value := range msg.headers(p.token, p.internalJobToken) {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: publish qstash job target_url=%s: %v", errQStashTransient, msg.targetURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if isRetryableStatus(resp.StatusCode) {
		return fmt.Errorf("%w: publish qstash job status=%d target_url=%s body=%s", errQStashTransient, resp.StatusCode, msg.targetURL, strings.TrimSpace(string(raw)))
	}
	return fmt.Errorf("publish qstash job status=%d target_url=%s body=%s", resp.StatusCode, msg.targetURL, strings.TrimSpace(string(raw)))
}

// curlPreview renders the request as a curl command with secrets masked.
func (m message) curlPreview() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl -X POST")
	appendPart(shellQuote(m.publishURL))
	for _, header := range []string{"Authorization", "Content-Type", "Upstash-Method", "Upstash-Retries", "Upstash-Delay", "Upstash-Deduplication-Id", "Upstash-Forward-" + InternalJobTokenHeader} {
		value, ok := m.headers("***", "***")[header]
		if !ok {
			continue
		}
		appendPart("-H")
		appendPart(shellQuote(header + ": " + value))
	}
	appendPart("-d")
	appendPart(shellQuote(truncateForLog(string(m.body), 4096)))
	return buf.String()
}

func normalizeDelay(delay time.Duration) string {
	seconds := int(delay.Round(time.Second).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	return strconv.Itoa(seconds) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errQStashTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
