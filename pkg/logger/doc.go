// Package logger builds *slog.Logger instances for otpd.
//
// New returns a JSON logger on stdout at info level; options change the
// format, level and output, attach static attributes and register
// ContextExtractor callbacks. NewFromConfig starts from the APP_ENV preset
// (text and debug in development, JSON and info elsewhere) and applies the
// LOG_LEVEL and LOG_FORMAT overrides.
//
// The session id stored with WithSessionID is always extracted, so everything
// logged while handling a step-up request carries "session_id":
//
//	log, err := logger.NewFromConfig(cfg, logger.WithContextExtractors(requestid.LoggerExtractor()))
//	ctx = logger.WithSessionID(ctx, sessionID)
//	log.InfoContext(ctx, "OTP issued", logger.Channel("SMS"), logger.Destination(masked))
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally. Destination expects an already masked value.
package logger
