package contact_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactsite/internal/contact"
	"github.com/dmitrymomot/contactsite/pkg/cache"
	"github.com/dmitrymomot/contactsite/pkg/captcha"
	"github.com/dmitrymomot/contactsite/pkg/validator"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, s contact.Submission) contact.Delivery {
	return m.Called(ctx, s).Get(0).(contact.Delivery)
}

type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) Check(ctx context.Context, a contact.Attempt) contact.Verdict {
	return m.Called(ctx, a).Get(0).(contact.Verdict)
}

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newPipeline(n contact.Notifier, opts ...contact.PipelineOption) *contact.Pipeline {
	opts = append([]contact.PipelineOption{
		contact.WithPipelineClock(func() time.Time { return fixedNow }),
		contact.WithReferenceGenerator(func() string { return "ref-1" }),
	}, opts...)
	return contact.NewPipeline(contact.NewValidator(), n, opts...)
}

func request(values url.Values) contact.Request {
	return contact.Request{Values: values, RemoteIP: "203.0.113.7", Language: "fi"}
}

func TestPipeline_Delivered(t *testing.T) {
	t.Parallel()

	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.MatchedBy(func(s contact.Submission) bool {
		return s.Name == "Matti Meikäläinen" &&
			s.Reference == "ref-1" &&
			s.RemoteIP == "203.0.113.7" &&
			s.Language == "fi" &&
			s.SubmittedAt.Equal(fixedNow)
	})).Return(contact.Delivered()).Once()

	out := newPipeline(n).Process(context.Background(), request(validValues()))

	assert.True(t, out.Done())
	assert.Equal(t, contact.ReasonNone, out.Reason)
	assert.NoError(t, out.Err)
	assert.False(t, out.Duplicate)
	assert.Equal(t, []contact.State{
		contact.StateAwaitingInput,
		contact.StateValidating,
		contact.StateNotifying,
		contact.StateDone,
	}, out.Trail)
	n.AssertExpectations(t)
}

func TestPipeline_InvalidInputNeverNotifies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(url.Values)
		field  string
	}{
		{"missing name", func(v url.Values) { v.Del(contact.FieldName) }, contact.FieldName},
		{"missing message", func(v url.Values) { v.Del(contact.FieldMessage) }, contact.FieldMessage},
		{"invalid email", func(v url.Values) { v.Set(contact.FieldEmail, "nope") }, contact.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := &mockNotifier{}
			g := &mockGuard{}
			v := validValues()
			tt.mutate(v)

			out := newPipeline(n, contact.WithGuard(g, "cf-turnstile-response")).
				Process(context.Background(), request(v))

			assert.Equal(t, contact.StateRejected, out.State)
			assert.Equal(t, contact.ReasonInvalidInput, out.Reason)
			require.ErrorIs(t, out.Err, validator.ErrValidation)
			assert.True(t, out.Errors.Has(tt.field))
			n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
			g.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
		})
	}
}

func TestPipeline_GuardRejects(t *testing.T) {
	t.Parallel()

	n := &mockNotifier{}
	g := &mockGuard{}
	g.On("Check", mock.Anything, contact.Attempt{RemoteIP: "203.0.113.7"}).
		Return(contact.Reject(contact.ReasonMissingToken, captcha.ErrMissingToken)).Once()

	out := newPipeline(n, contact.WithGuard(g, "cf-turnstile-response")).
		Process(context.Background(), request(validValues()))

	assert.Equal(t, contact.StateRejected, out.State)
	assert.Equal(t, contact.ReasonMissingToken, out.Reason)
	require.ErrorIs(t, out.Err, contact.ErrAbuseCheckFailed)
	require.ErrorIs(t, out.Err, captcha.ErrMissingToken)
	assert.Equal(t, []contact.State{
		contact.StateAwaitingInput,
		contact.StateValidating,
		contact.StateGuardCheck,
		contact.StateRejected,
	}, out.Trail)
	n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	g.AssertExpectations(t)
}

func TestPipeline_GuardReceivesToken(t *testing.T) {
	t.Parallel()

	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.MatchedBy(func(s contact.Submission) bool {
		return s.CaptchaToken == "tok"
	})).Return(contact.Delivered()).Once()
	g := &mockGuard{}
	g.On("Check", mock.Anything, contact.Attempt{Token: "tok", RemoteIP: "203.0.113.7"}).
		Return(contact.Accept()).Once()

	v := validValues()
	v.Set("cf-turnstile-response", "  tok ")
	out := newPipeline(n, contact.WithGuard(g, "cf-turnstile-response")).Process(context.Background(), request(v))

	assert.True(t, out.Done())
	g.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestPipeline_DeliveryFailed(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.Anything).Return(contact.DeliveryFailed(cause)).Once()

	out := newPipeline(n).Process(context.Background(), request(validValues()))

	assert.Equal(t, contact.StateRejected, out.State)
	assert.Equal(t, contact.ReasonDeliveryFailed, out.Reason)
	require.ErrorIs(t, out.Err, contact.ErrDeliveryFailed)
	require.ErrorIs(t, out.Err, cause)
	n.AssertNumberOfCalls(t, "Notify", 1)
}

func TestPipeline_Dedupe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("suppresses repeated submission", func(t *testing.T) {
		t.Parallel()
		mem := cache.NewMemory[string]()
		t.Cleanup(func() { _ = mem.Close() })

		n := &mockNotifier{}
		n.On("Notify", mock.Anything, mock.Anything).Return(contact.Delivered()).Once()
		p := newPipeline(n, contact.WithDedupe(contact.NewDedupe(mem, time.Minute)))

		first := p.Process(ctx, request(validValues()))
		require.True(t, first.Done())
		assert.False(t, first.Duplicate)

		second := p.Process(ctx, request(validValues()))
		assert.True(t, second.Done())
		assert.True(t, second.Duplicate)
		n.AssertNumberOfCalls(t, "Notify", 1)
	})

	t.Run("failed delivery can be retried", func(t *testing.T) {
		t.Parallel()
		mem := cache.NewMemory[string]()
		t.Cleanup(func() { _ = mem.Close() })

		n := &mockNotifier{}
		n.On("Notify", mock.Anything, mock.Anything).Return(contact.DeliveryFailed(errors.New("timeout"))).Once()
		n.On("Notify", mock.Anything, mock.Anything).Return(contact.Delivered()).Once()
		p := newPipeline(n, contact.WithDedupe(contact.NewDedupe(mem, time.Minute)))

		assert.Equal(t, contact.ReasonDeliveryFailed, p.Process(ctx, request(validValues())).Reason)

		retry := p.Process(ctx, request(validValues()))
		assert.True(t, retry.Done())
		assert.False(t, retry.Duplicate)
		n.AssertNumberOfCalls(t, "Notify", 2)
	})

	t.Run("identical submission during delivery is not reported as sent", func(t *testing.T) {
		t.Parallel()
		mem := cache.NewMemory[string]()
		t.Cleanup(func() { _ = mem.Close() })

		started := make(chan struct{})
		release := make(chan struct{})
		n := &mockNotifier{}
		n.On("Notify", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return(contact.Delivered()).Once()
		p := newPipeline(n, contact.WithDedupe(contact.NewDedupe(mem, time.Minute)))

		done := make(chan contact.Outcome, 1)
		go func() { done <- p.Process(ctx, request(validValues())) }()
		<-started

		second := p.Process(ctx, request(validValues()))
		assert.Equal(t, contact.StateRejected, second.State)
		assert.Equal(t, contact.ReasonInProgress, second.Reason)
		assert.ErrorIs(t, second.Err, contact.ErrInProgress)
		assert.False(t, second.Duplicate)

		close(release)
		first := <-done
		require.True(t, first.Done())

		third := p.Process(ctx, request(validValues()))
		assert.True(t, third.Done())
		assert.True(t, third.Duplicate)
		n.AssertNumberOfCalls(t, "Notify", 1)
	})

	t.Run("cache failure fails open", func(t *testing.T) {
		t.Parallel()
		mem := cache.NewMemory[string]()
		require.NoError(t, mem.Close())

		n := &mockNotifier{}
		n.On("Notify", mock.Anything, mock.Anything).Return(contact.Delivered()).Once()
		p := newPipeline(n, contact.WithDedupe(contact.NewDedupe(mem, time.Minute)))

		assert.True(t, p.Process(ctx, request(validValues())).Done())
		n.AssertExpectations(t)
	})
}

func TestPipeline_ReferenceInContext(t *testing.T) {
	t.Parallel()

	n := &mockNotifier{}
	n.On("Notify", mock.MatchedBy(func(ctx context.Context) bool {
		ref, ok := contact.ReferenceFrom(ctx)
		return ok && ref == "ref-1"
	}), mock.Anything).Return(contact.Delivered()).Once()

	out := newPipeline(n).Process(context.Background(), request(validValues()))
	assert.True(t, out.Done())
	n.AssertExpectations(t)

	attr, ok := contact.ReferenceExtractor()(contact.WithReference(context.Background(), "ref-2"))
	require.True(t, ok)
	assert.Equal(t, "ref-2", attr.Value.String())

	_, ok = contact.ReferenceExtractor()(context.Background())
	assert.False(t, ok)
}
