// Package cmd implements the calc subcommands: eval, fmt, repl, and init.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// (see [WithContext]), the global --source files (see [WithSourceFiles]), and
// the language options selected by the --lang-* flags (see
// [WithLangOptions]). Command output goes to the kong application's Stdout and
// diagnostics to its Stderr.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration directory. It is also the base name of configuration
	// files within that directory.
	ConfigIdentifier = "config"
)
