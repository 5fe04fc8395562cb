package contact

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/contactsite/pkg/id"
	"github.com/dmitrymomot/contactsite/pkg/logger"
	"github.com/dmitrymomot/contactsite/pkg/validator"
)

// State is a step of submission handling.
type State string

const (
	StateAwaitingInput State = "awaiting_input"
	StateValidating    State = "validating"
	StateGuardCheck    State = "guard_check"
	StateNotifying     State = "notifying"
	StateDone          State = "done"
	StateRejected      State = "rejected"
)

// Request is one POSTed form plus what the handler knows about the client.
type Request struct {
	Values   url.Values
	RemoteIP string
	Language string
}

// Outcome is the terminal result of Process.
type Outcome struct {
	Err        error
	Reason     Reason
	State      State
	Errors     validator.ValidationErrors
	Trail      []State
	Submission Submission
	Duplicate  bool
}

// Done reports whether the submission was delivered or suppressed as a duplicate.
func (o Outcome) Done() bool {
	return o.State == StateDone
}

// Pipeline runs validate, guard and notify for each submission. It holds no
// per-request state and is safe for concurrent use.
type Pipeline struct {
	validator  *Validator
	notifier   Notifier
	guard      Guard
	dedupe     *Dedupe
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
	tokenField string
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithGuard enables the abuse check. tokenField is the form key holding the
// CAPTCHA token, empty when the guard has no CAPTCHA.
func WithGuard(g Guard, tokenField string) PipelineOption {
	return func(p *Pipeline) {
		p.guard = g
		p.tokenField = tokenField
	}
}

// WithDedupe enables duplicate suppression.
func WithDedupe(d *Dedupe) PipelineOption {
	return func(p *Pipeline) {
		p.dedupe = d
	}
}

// WithPipelineLogger sets the logger.
func WithPipelineLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPipelineClock overrides the submission timestamp source.
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithReferenceGenerator overrides the reference generator (ULID by default).
func WithReferenceGenerator(fn func() string) PipelineOption {
	return func(p *Pipeline) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// NewPipeline creates a Pipeline.
func NewPipeline(v *Validator, n Notifier, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		validator: v,
		notifier:  n,
		logger:    logger.NewNope(),
		now:       time.Now,
		newID:     id.NewULID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process drives one submission from AwaitingInput to Done or Rejected.
// The notifier is only reached with a valid submission the guard accepted.
func (p *Pipeline) Process(ctx context.Context, req Request) Outcome {
	out := Outcome{State: StateAwaitingInput, Trail: []State{StateAwaitingInput}}
	enter := func(s State) {
		out.State = s
		out.Trail = append(out.Trail, s)
	}
	reject := func(reason Reason, err error) Outcome {
		enter(StateRejected)
		out.Reason = reason
		out.Err = err
		p.logger.DebugContext(ctx, "contact submission rejected",
			slog.String("reference", out.Submission.Reference),
			slog.String("reason", string(reason)),
			slog.Any("trail", out.Trail),
		)
		return out
	}

	enter(StateValidating)
	sub, err := p.validator.Validate(req.Values)
	sub.Reference = p.newID()
	sub.RemoteIP = req.RemoteIP
	sub.Language = req.Language
	sub.SubmittedAt = p.now()
	out.Submission = sub
	ctx = WithReference(ctx, sub.Reference)
	if err != nil {
		out.Errors = validator.ExtractValidationErrors(err)
		return reject(ReasonInvalidInput, err)
	}

	if p.guard != nil {
		enter(StateGuardCheck)
		if p.tokenField != "" {
			sub.CaptchaToken = strings.TrimSpace(req.Values.Get(p.tokenField))
			out.Submission = sub
		}
		verdict := p.guard.Check(ctx, Attempt{Token: sub.CaptchaToken, RemoteIP: sub.RemoteIP})
		if !verdict.Accepted {
			p.logger.WarnContext(ctx, "contact submission blocked",
				slog.String("reference", sub.Reference),
				slog.String("reason", string(verdict.Reason)),
				slog.Any("error", verdict.Err),
			)
			return reject(verdict.Reason, errors.Join(ErrAbuseCheckFailed, verdict.Err))
		}
	}

	enter(StateNotifying)

	if p.dedupe != nil {
		claim, err := p.dedupe.Reserve(ctx, sub)
		if err != nil {
			p.logger.WarnContext(ctx, "duplicate check unavailable", slog.String("error", err.Error()))
		}
		switch claim {
		case ClaimSent:
			p.logger.InfoContext(ctx, "duplicate contact submission suppressed", slog.String("reference", sub.Reference))
			out.Duplicate = true
			enter(StateDone)
			return out
		case ClaimPending:
			return reject(ReasonInProgress, ErrInProgress)
		}
		if err == nil {
			defer p.settle(ctx, sub, &out)
		}
	}

	delivery := p.notifier.Notify(ctx, sub)
	if !delivery.OK() {
		return reject(ReasonDeliveryFailed, delivery.Err)
	}

	enter(StateDone)
	p.logger.DebugContext(ctx, "contact submission done",
		slog.String("reference", sub.Reference),
		slog.Any("trail", out.Trail),
	)
	return out
}

// settle confirms a delivered reservation or releases a failed one.
func (p *Pipeline) settle(ctx context.Context, sub Submission, out *Outcome) {
	ctx = context.WithoutCancel(ctx)
	if out.State == StateDone {
		if err := p.dedupe.Confirm(ctx, sub); err != nil {
			p.logger.WarnContext(ctx, "duplicate reservation not confirmed", slog.String("error", err.Error()))
		}
		return
	}
	if err := p.dedupe.Release(ctx, sub); err != nil {
		p.logger.WarnContext(ctx, "duplicate reservation not released", slog.String("error", err.Error()))
	}
}
