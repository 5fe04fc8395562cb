package contact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/dmitrymomot/contactsite/pkg/cache"
)

// Claim is what Reserve found for a fingerprint.
type Claim int

const (
	// ClaimOwned means the caller holds the fingerprint and delivers.
	ClaimOwned Claim = iota
	// ClaimPending means an identical submission is still being delivered.
	ClaimPending
	// ClaimSent means an identical submission was delivered within the window.
	ClaimSent
)

const (
	markPending = "pending"
	markSent    = "sent"
)

// Dedupe suppresses identical submissions (same email and message) within
// a window. A fingerprint is marked pending before notifying, marked sent
// after delivery and released when delivery fails, so only delivered
// submissions are remembered for the whole window.
type Dedupe struct {
	cache      cache.Cache[string]
	window     time.Duration
	pendingTTL time.Duration
}

// DedupeOption configures a Dedupe.
type DedupeOption func(*Dedupe)

// WithPendingTTL bounds how long a pending mark survives a process that
// died mid-delivery. Defaults to the window.
func WithPendingTTL(d time.Duration) DedupeOption {
	return func(dd *Dedupe) {
		if d > 0 {
			dd.pendingTTL = d
		}
	}
}

// NewDedupe creates a Dedupe over c. The cache should be namespaced.
func NewDedupe(c cache.Cache[string], window time.Duration, opts ...DedupeOption) *Dedupe {
	d := &Dedupe{cache: c, window: window, pendingTTL: window}
	for _, opt := range opts {
		opt(d)
	}
	d.pendingTTL = min(d.pendingTTL, window)
	return d
}

// Reserve marks the fingerprint of s pending unless an identical submission
// holds it. On error the claim is ClaimOwned and the caller decides whether
// to proceed.
func (d *Dedupe) Reserve(ctx context.Context, s Submission) (Claim, error) {
	key := Fingerprint(s)
	added, err := d.cache.Add(ctx, key, markPending, d.pendingTTL)
	if err != nil || added {
		return ClaimOwned, err
	}

	mark, err := d.cache.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		// released between Add and Get; the other request failed to deliver
		return ClaimPending, nil
	case err != nil:
		return ClaimOwned, err
	case mark == markSent:
		return ClaimSent, nil
	default:
		return ClaimPending, nil
	}
}

// Confirm marks s as delivered for the rest of the window.
func (d *Dedupe) Confirm(ctx context.Context, s Submission) error {
	return d.cache.Set(ctx, Fingerprint(s), markSent, d.window)
}

// Release drops the reservation for s.
func (d *Dedupe) Release(ctx context.Context, s Submission) error {
	return d.cache.Delete(ctx, Fingerprint(s))
}

// Fingerprint hashes the case-folded email and the message.
func Fingerprint(s Submission) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(s.Email)))
	h.Write([]byte{0})
	h.Write([]byte(s.Message))
	return hex.EncodeToString(h.Sum(nil))
}
