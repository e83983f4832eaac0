// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time using functional options, and
// derived loggers are created with [Logger.Wrap], [Logger.With], and
// [Logger.WithGroup]. The zero [Logger] discards everything.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("evaluated", slog.String("expr", src), slog.Int64("result", v))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is rendered as "TRACE" rather than
// slog's "DEBUG-4".
//
// # Output
//
// Two formats are supported, [FormatJSON] (default) and [FormatText]. With
// [WithPretty] enabled, both are rendered for a human reader: values are
// unquoted, groups are flattened into dotted keys, and colors are used when
// the output is a terminal.
//
// # Package-Level Logging
//
// The top-level functions such as [Info] and [ErrorContext] write to a
// default logger that is adjusted with [Config] or replaced with
// [SetDefault]. Context-unaware functions use [DefaultContextProvider].
package log
