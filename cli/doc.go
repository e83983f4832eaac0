// Package cli contains the command line interface for calc.
//
// # Usage
//
//	calc [flags] [<stmt> ...]
//	calc eval [-e] [-o text|json|yaml] [-D name=value] [<stmt> ...]
//	calc fmt [native|json|yaml|ast] [<source> ...]
//	calc repl
//	calc init [--format toml|yaml|json] [--force]
//
// Eval is the default command, so statements may follow the program name
// directly:
//
//	calc 'r = 7; 3 * r * r'
//
// # Configuration
//
// Flag defaults are read from config.json, config.toml, and config.yaml in
// the user configuration directory (see [pkg.ConfigDir]). Keys are flag names
// with hyphens replaced by underscores. Flags may also be set with environment
// variables named after the flag with the program prefix (e.g.,
// CALC_LOG_LEVEL). Command-line flags always take precedence. The init
// command writes the current flag values to one of these files.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on terminals
//
// # Language Options
//
//   - --lang-overflow: Integer overflow policy (error, wrap, saturate)
//   - --lang-allow-trailing: Ignore tokens after a complete statement
//   - --lang-max-depth: Maximum parenthesis nesting depth
//   - --lang-delimiters: Characters separating statements
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o calc .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: the pprof
//     subdirectory of the user cache directory)
package cli
