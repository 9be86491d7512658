// Package google verifies Google Sign-In tokens presented by admins.
package google

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/club-fixtures/internal/domain/admin"
	"github.com/riskibarqy/club-fixtures/internal/platform/cache"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/platform/resilience"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
	"google.golang.org/api/idtoken"
)

const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var errGoogleTransient = crerr.New("google token endpoint transient failure")

var validIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

type Config struct {
	// ClientID is the expected audience; blank accepts any audience.
	ClientID      string
	AllowedEmails []string
	TokenInfoURL  string
	CacheTTL      time.Duration
	Breaker       resilience.BreakerConfig
}

type Verifier struct {
	httpClient   *http.Client
	clientID     string
	allowlist    admin.Allowlist
	tokenInfoURL string
	cache        *cache.Store
	breaker      *resilience.Breaker
	logger       *logging.Logger

	validateIDToken func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewVerifier(httpClient *http.Client, cfg Config, logger *logging.Logger) *Verifier {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	tokenInfoURL := strings.TrimSpace(cfg.TokenInfoURL)
	if tokenInfoURL == "" {
		tokenInfoURL = DefaultTokenInfoURL
	}

	v := &Verifier{
		httpClient:      httpClient,
		clientID:        strings.TrimSpace(cfg.ClientID),
		allowlist:       admin.NewAllowlist(cfg.AllowedEmails),
		tokenInfoURL:    tokenInfoURL,
		breaker:         resilience.NewBreaker(cfg.Breaker),
		logger:          logger.Named("account.google"),
		validateIDToken: idtoken.Validate,
	}
	if cfg.CacheTTL > 0 {
		v.cache = cache.NewStore(cfg.CacheTTL)
	}
	return v
}

// VerifyToken accepts an ID token (JWT) or an OAuth2 access token. The
// account's email must be verified and on the allowlist.
func (v *Verifier) VerifyToken(ctx context.Context, token string) (admin.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return admin.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}
	if v.allowlist.Len() == 0 {
		return admin.Principal{}, fmt.Errorf("%w: no admin emails configured", usecase.ErrUnauthorized)
	}

	principal, err := cache.Load(ctx, v.cache, "token:"+hashToken(token), func(ctx context.Context) (admin.Principal, error) {
		if isJWT(token) {
			return v.verifyIDToken(ctx, token)
		}
		return v.verifyAccessToken(ctx, token)
	})
	if err != nil {
		return admin.Principal{}, err
	}

	if !v.allowlist.Allows(principal.Email) {
		v.logger.WarnContext(ctx, "admin access denied", "email", principal.Email)
		return admin.Principal{}, fmt.Errorf("%w: %s is not an admin", usecase.ErrUnauthorized, principal.Email)
	}
	return principal, nil
}

func (v *Verifier) verifyIDToken(ctx context.Context, token string) (admin.Principal, error) {
	payload, err := v.validateIDToken(ctx, token, v.clientID)
	if err != nil {
		return admin.Principal{}, fmt.Errorf("%w: invalid id token: %v", usecase.ErrUnauthorized, err)
	}
	if _, ok := validIssuers[payload.Issuer]; !ok {
		return admin.Principal{}, fmt.Errorf("%w: unexpected token issuer %q", usecase.ErrUnauthorized, payload.Issuer)
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	name, _ := payload.Claims["name"].(string)
	return principalFrom(payload.Subject, email, name, verified)
}

type tokenInfoResponse struct {
	Audience      string `json:"aud"`
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	ExpiresIn     string `json:"expires_in"`
}

func (v *Verifier) verifyAccessToken(ctx context.Context, token string) (admin.Principal, error) {
	var decoded tokenInfoResponse
	err := v.breaker.Execute(func() error {
		var reqErr error
		decoded, reqErr = v.fetchTokenInfo(ctx, token)
		return reqErr
	}, isCircuitFailure)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) || isCircuitFailure(err) {
			return admin.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return admin.Principal{}, err
	}

	if v.clientID != "" && decoded.Audience != v.clientID {
		return admin.Principal{}, fmt.Errorf("%w: token audience mismatch", usecase.ErrUnauthorized)
	}
	return principalFrom(decoded.Subject, decoded.Email, decoded.Name, strings.EqualFold(decoded.EmailVerified, "true"))
}

func (v *Verifier) fetchTokenInfo(ctx context.Context, token string) (tokenInfoResponse, error) {
	endpoint := v.tokenInfoURL + "?access_token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return tokenInfoResponse{}, fmt.Errorf("create tokeninfo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return tokenInfoResponse{}, fmt.Errorf("%w: request tokeninfo: %v", errGoogleTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return tokenInfoResponse{}, fmt.Errorf("%w: read tokeninfo response: %v", errGoogleTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return tokenInfoResponse{}, fmt.Errorf("%w: tokeninfo status=%d", errGoogleTransient, resp.StatusCode)
	default:
		return tokenInfoResponse{}, fmt.Errorf("%w: access token rejected with status %d", usecase.ErrUnauthorized, resp.StatusCode)
	}

	var decoded tokenInfoResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return tokenInfoResponse{}, fmt.Errorf("decode tokeninfo response: %w", err)
	}
	return decoded, nil
}

func principalFrom(subject, email, name string, verified bool) (admin.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return admin.Principal{}, fmt.Errorf("%w: token carries no email", usecase.ErrUnauthorized)
	}
	if !verified {
		return admin.Principal{}, fmt.Errorf("%w: email %s is not verified", usecase.ErrUnauthorized, email)
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}
	return admin.Principal{Subject: subject, Email: email, Name: name}, nil
}

func isJWT(token string) bool {
	return strings.Count(token, ".") == 2
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errGoogleTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
