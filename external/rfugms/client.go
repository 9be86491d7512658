package rfugms

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/platform/resilience"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

const (
	DefaultBaseURL = "https://gms.rfu.com/fsiservices2/Competitions.svc/json"
	resultsPath    = "/GetResultsSimplified"
	maxBodyBytes   = 6 << 20
)

var (
	gmsDateRegex       = regexp.MustCompile(`/Date\((-?\d+)([+-]\d{4})?\)/`)
	errGMSTransient    = crerr.New("rfu gms transient failure")
	errGMSUnconfigured = crerr.New("rfu gms is not configured")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	TeamID         string
	ClubID         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// Client reads match results from the RFU Game Management System.
type Client struct {
	httpClient *http.Client
	baseURL    string
	teamID     string
	clubID     string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		teamID:     strings.TrimSpace(cfg.TeamID),
		clubID:     strings.TrimSpace(cfg.ClubID),
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    resilience.NewBreaker(cfg.CircuitBreaker),
	}
}

type resultItem struct {
	Type              string `json:"Type"`
	Date              string `json:"Date"`
	HomeTeamName      string `json:"HomeTeamName"`
	AwayTeamName      string `json:"AwayTeamName"`
	HomeFullTimeScore any    `json:"HomeFullTimeScore"`
	AwayFullTimeScore any    `json:"AwayFullTimeScore"`
	CompetitionName   string `json:"CompetitionName"`
	Competition       string `json:"Competition"`
}

// FetchResults returns every result the API lists for the configured team.
// Filtering by result type is left to the caller.
func (c *Client) FetchResults(ctx context.Context) ([]usecase.ExternalResult, error) {
	if c.baseURL == "" || c.teamID == "" || c.clubID == "" {
		return nil, fmt.Errorf("%w: %w (RFU_GMS_BASE_URL, RFU_GMS_TEAM_ID, RFU_GMS_CLUB_ID)", usecase.ErrConfiguration, errGMSUnconfigured)
	}

	var items []resultItem
	if err := c.doJSON(ctx, resultsPath, map[string]string{"teamId": c.teamID, "clubId": c.clubID}, &items); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalResult, 0, len(items))
	for _, item := range items {
		playedAt, _ := ParseDate(item.Date)
		competition := strings.TrimSpace(item.CompetitionName)
		if competition == "" {
			competition = strings.TrimSpace(item.Competition)
		}
		out = append(out, usecase.ExternalResult{
			Type:        strings.ToUpper(strings.TrimSpace(item.Type)),
			PlayedAt:    playedAt,
			HomeTeam:    strings.TrimSpace(item.HomeTeamName),
			AwayTeam:    strings.TrimSpace(item.AwayTeamName),
			HomeScore:   scoreValue(item.HomeFullTimeScore),
			AwayScore:   scoreValue(item.AwayFullTimeScore),
			Competition: competition,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "rfu gms circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: results provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil && stderrors.Is(reqErr, errGMSTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode rfu gms payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errGMSTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errGMSTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: rfu gms status=%d body=%s", errGMSTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("rfu gms status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("rfu gms request failed")
	}
	c.logger.WarnContext(ctx, "rfu gms request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// ParseDate reads the /Date(ms[+hhmm])/ format. The offset is informational;
// the millisecond value is already UTC.
func ParseDate(raw string) (time.Time, bool) {
	m := gmsDateRegex.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

func scoreValue(value any) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case int64:
		return int(typed)
	case int:
		return typed
	case string:
		text := strings.TrimSpace(typed)
		end := 0
		for end < len(text) && (text[end] >= '0' && text[end] <= '9' || end == 0 && text[end] == '-') {
			end++
		}
		parsed, err := strconv.Atoi(text[:end])
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 240
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
