package icsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-fixtures/internal/domain/league"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/platform/resilience"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	acceptHeader        = "text/calendar,text/plain,*/*"
	defaultTimeout      = 20 * time.Second
	defaultMaxBodyBytes = 4 << 20
	maxRedirects        = 5
)

var errFeedTransient = crerr.New("calendar feed transient failure")

type ClientConfig struct {
	Timeout        time.Duration
	MaxBodyBytes   int
	UserAgent      string
	Location       *time.Location
	DefaultTime    string
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
	Now            func() time.Time
}

// Client downloads calendar feeds and parses them into fixtures.
type Client struct {
	http        *fasthttp.Client
	timeout     time.Duration
	location    *time.Location
	defaultTime string
	logger      *logging.Logger
	breakerCfg  resilience.BreakerConfig
	now         func() time.Time

	mu       sync.Mutex
	breakers map[string]*resilience.Breaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "club-fixtures"
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                userAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBody,
		},
		timeout:     timeout,
		location:    cfg.Location,
		defaultTime: cfg.DefaultTime,
		logger:      logger,
		breakerCfg:  cfg.CircuitBreaker,
		now:         now,
		breakers:    make(map[string]*resilience.Breaker),
	}
}

// FetchFixtures downloads one feed and returns its fixtures.
func (c *Client) FetchFixtures(ctx context.Context, source league.FeedSource) ([]usecase.ExternalFixture, error) {
	body, err := c.Fetch(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	items, err := Parse(body, ParseOptions{
		Location:    c.location,
		DefaultTime: c.defaultTime,
		Now:         c.now(),
	})
	if err != nil {
		return nil, crerr.Wrapf(err, "feed %s", source.Name)
	}
	for i := range items {
		items[i].Source = source.Name
	}

	c.logger.DebugContext(ctx, "calendar feed parsed", "source", source.Name, "fixtures", len(items))
	return items, nil
}

// Fetch returns the body of a calendar URL. webcal:// is read over https.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	feedURL, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	parsed, _ := url.Parse(feedURL)
	breaker := c.breakerFor(parsed.Host)

	var body string
	err = breaker.Execute(func() error {
		var reqErr error
		body, reqErr = c.get(feedURL)
		return reqErr
	}, isCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "calendar feed circuit breaker rejected request", "host", parsed.Host, "state", breaker.State())
		return "", fmt.Errorf("%w: calendar host %s is temporarily unavailable", usecase.ErrDependencyUnavailable, parsed.Host)
	}
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return body, nil
}

func (c *Client) get(feedURL string) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(feedURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", acceptHeader)

	if err := c.http.DoRedirects(req, resp, maxRedirects); err != nil {
		if stderrors.Is(err, fasthttp.ErrBodyTooLarge) {
			return "", fmt.Errorf("calendar feed body exceeds limit: %w", err)
		}
		return "", fmt.Errorf("%w: fetch %s: %v", errFeedTransient, feedURL, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		body := abbreviateBody(resp.Body())
		if status == fasthttp.StatusTooManyRequests || status >= 500 {
			return "", fmt.Errorf("%w: calendar feed status=%d body=%s", errFeedTransient, status, body)
		}
		return "", fmt.Errorf("calendar feed status=%d body=%s", status, body)
	}

	return string(resp.Body()), nil
}

func (c *Client) breakerFor(host string) *resilience.Breaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	breaker, ok := c.breakers[host]
	if !ok {
		breaker = resilience.NewBreaker(c.breakerCfg)
		c.breakers[host] = breaker
	}
	return breaker
}

// NormalizeURL rewrites webcal:// to https:// and rejects non-http URLs.
func NormalizeURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("%w: calendar url is required", usecase.ErrInvalidInput)
	}
	if len(value) >= len("webcal://") && strings.EqualFold(value[:len("webcal://")], "webcal://") {
		value = "https://" + value[len("webcal://"):]
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%w: invalid calendar url: %v", usecase.ErrInvalidInput, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: calendar url must use http, https or webcal", usecase.ErrInvalidInput)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: calendar url host is required", usecase.ErrInvalidInput)
	}
	return value, nil
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errFeedTransient)
}

func abbreviateBody(raw []byte) string {
	const limit = 240
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
