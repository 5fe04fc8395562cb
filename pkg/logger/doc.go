// Package logger builds slog loggers that write JSON to stdout and can
// mirror records to a file and to Sentry.
//
// Request-scoped values reach every record through [ContextExtractor]
// functions, evaluated per call against the record's context:
//
//	log, closeLog, err := logger.NewFromConfig(cfg.Log,
//	    middlewares.RequestIDExtractor(),
//	    contact.ReferenceExtractor(),
//	)
//	defer closeLog()
//	log.InfoContext(ctx, "notification sent") // carries request_id and reference
//
// [NewNope] is the default for components built without a logger.
package logger
