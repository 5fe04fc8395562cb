package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseSize caps the siteverify body.
const maxResponseSize = 64 << 10

// Response is the siteverify JSON document shared by all providers.
type Response struct {
	ErrorCodes  []string `json:"error-codes"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	Action      string   `json:"action"`
	Score       *float64 `json:"score"`
	Success     bool     `json:"success"`
}

// Verifier checks tokens against a provider's siteverify endpoint.
type Verifier struct {
	client   *http.Client
	logger   *slog.Logger
	provider Provider
	secret   string
	action   string
	minScore float64
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) {
		if c != nil {
			v.client = c
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.client = &http.Client{Timeout: d}
		}
	}
}

// WithMinScore rejects scored responses (reCAPTCHA v3) below score.
// Responses without a score are unaffected.
func WithMinScore(score float64) Option {
	return func(v *Verifier) {
		v.minScore = score
	}
}

// WithAction requires the response action to match, when the provider
// reports one.
func WithAction(action string) Option {
	return func(v *Verifier) {
		v.action = action
	}
}

// WithVerifyURL overrides the provider endpoint.
func WithVerifyURL(u string) Option {
	return func(v *Verifier) {
		v.provider.VerifyURL = u
	}
}

// WithLogger sets the logger for rejected verifications.
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a Verifier for provider using the server-side secret.
func New(provider Provider, secret string, opts ...Option) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	v := &Verifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   slog.New(slog.DiscardHandler),
		provider: provider,
		secret:   secret,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Provider returns the configured provider.
func (v *Verifier) Provider() Provider {
	return v.provider
}

// Verify makes exactly one siteverify call for a non-empty token.
// An empty token returns ErrMissingToken without any network traffic.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (*Response, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.provider.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Join(ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	if err := v.judge(&out); err != nil {
		v.logger.WarnContext(ctx, "captcha rejected",
			slog.String("provider", v.provider.Name),
			slog.Any("error_codes", out.ErrorCodes),
			slog.String("hostname", out.Hostname),
			slog.String("error", err.Error()),
		)
		return &out, err
	}
	return &out, nil
}

func (v *Verifier) judge(r *Response) error {
	if !r.Success {
		if len(r.ErrorCodes) > 0 {
			return fmt.Errorf("%w: %s", ErrNotVerified, strings.Join(r.ErrorCodes, ","))
		}
		return ErrNotVerified
	}
	if r.Score != nil && *r.Score < v.minScore {
		return fmt.Errorf("%w: %.2f < %.2f", ErrLowScore, *r.Score, v.minScore)
	}
	if v.action != "" && r.Action != "" && r.Action != v.action {
		return fmt.Errorf("%w: %q", ErrActionMismatch, r.Action)
	}
	return nil
}
