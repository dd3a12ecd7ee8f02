// Package log builds the slog loggers used by wordcrawl.
//
// Loggers wrap a text or JSON handler in SecureHandler, which masks values
// that should never reach a log file: cookies and authorization headers
// configured for the document source, and credentials embedded in proxy
// URLs. Masking applies at every level, including debug.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Debug("request", "cookie", cfg.Cookie) // cookie=***REDACTED***
package log
