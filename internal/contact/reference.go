package contact

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/contactsite/pkg/logger"
)

type referenceKey struct{}

// WithReference stores the submission reference in ctx.
func WithReference(ctx context.Context, ref string) context.Context {
	return context.WithValue(ctx, referenceKey{}, ref)
}

// ReferenceFrom returns the submission reference stored in ctx.
func ReferenceFrom(ctx context.Context) (string, bool) {
	ref, ok := ctx.Value(referenceKey{}).(string)
	return ref, ok && ref != ""
}

// ReferenceExtractor adds the submission reference to log records written
// while a submission is processed.
func ReferenceExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		ref, ok := ReferenceFrom(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("reference", ref), true
	}
}
