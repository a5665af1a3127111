// Package logging provides structured logging helpers on top of log/slog.
//
// The process logger is built once in main and installed with slog.SetDefault.
// Request scoped loggers pick up the request ID and trace IDs from the context:
//
//	logger := logging.WithTrace(ctx, logging.WithRequestID(ctx, slog.Default()))
//	logger.Info("article approved", slog.Int64("article_id", id))
package logging
