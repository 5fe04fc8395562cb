package contact

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/contactsite/pkg/captcha"
	"github.com/dmitrymomot/contactsite/pkg/logger"
	"github.com/dmitrymomot/contactsite/pkg/ratelimit"
)

// Reason explains why a submission was rejected.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonInvalidInput       Reason = "invalid_input"
	ReasonMissingToken       Reason = "missing_token"
	ReasonVerificationFailed Reason = "verification_failed"
	ReasonThrottled          Reason = "throttled"
	ReasonDeliveryFailed     Reason = "delivery_failed"
	ReasonInProgress         Reason = "in_progress"
)

// Attempt is what the guard sees of a submission.
type Attempt struct {
	Token    string
	RemoteIP string
}

// Verdict is the guard decision. Err holds the cause of a rejection for logs.
type Verdict struct {
	Err      error
	Reason   Reason
	Accepted bool
}

// Accept returns an accepting Verdict.
func Accept() Verdict {
	return Verdict{Accepted: true}
}

// Reject returns a rejecting Verdict.
func Reject(reason Reason, cause error) Verdict {
	return Verdict{Reason: reason, Err: cause}
}

// Guard decides whether a submission may proceed to notification.
type Guard interface {
	Check(ctx context.Context, a Attempt) Verdict
}

// TokenVerifier checks a CAPTCHA token. *captcha.Verifier implements it.
type TokenVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*captcha.Response, error)
}

// AbuseGuard combines a per-IP throttle and a CAPTCHA check. Either part
// may be absent; with neither it accepts everything.
type AbuseGuard struct {
	verifier TokenVerifier
	limiter  *ratelimit.Limiter
	logger   *slog.Logger
}

// GuardOption configures an AbuseGuard.
type GuardOption func(*AbuseGuard)

// WithCaptcha enables token verification.
func WithCaptcha(v TokenVerifier) GuardOption {
	return func(g *AbuseGuard) {
		g.verifier = v
	}
}

// WithThrottle enables the per-IP submission limit.
func WithThrottle(l *ratelimit.Limiter) GuardOption {
	return func(g *AbuseGuard) {
		g.limiter = l
	}
}

// WithGuardLogger sets the logger used for throttle store failures.
func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *AbuseGuard) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGuard creates an AbuseGuard.
func NewGuard(opts ...GuardOption) *AbuseGuard {
	g := &AbuseGuard{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether any check is configured.
func (g *AbuseGuard) Enabled() bool {
	return g.verifier != nil || g.limiter != nil
}

// Check runs the throttle first, then the CAPTCHA. A missing token is
// rejected without any outbound call. Throttle store failures fail open.
func (g *AbuseGuard) Check(ctx context.Context, a Attempt) Verdict {
	if g.limiter != nil {
		res, err := g.limiter.Allow(ctx, a.RemoteIP)
		switch {
		case err != nil:
			g.logger.WarnContext(ctx, "submission throttle unavailable", slog.String("error", err.Error()))
		case !res.Allowed:
			return Reject(ReasonThrottled, ErrThrottled)
		}
	}

	if g.verifier == nil {
		return Accept()
	}

	if a.Token == "" {
		return Reject(ReasonMissingToken, captcha.ErrMissingToken)
	}

	if _, err := g.verifier.Verify(ctx, a.Token, a.RemoteIP); err != nil {
		if errors.Is(err, captcha.ErrMissingToken) {
			return Reject(ReasonMissingToken, err)
		}
		return Reject(ReasonVerificationFailed, err)
	}
	return Accept()
}
