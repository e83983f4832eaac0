package cli

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/cli/cmd"
	"github.com/ardnew/calc/log"
	"github.com/ardnew/calc/pkg"
)

// CLI is the top-level command-line interface for calc.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Lang  langConfig  `embed:"" group:"lang"  prefix:"lang-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source  []string         `help:"Input source file(s) or '-' for stdin" name:"source" short:"s" type:"existingfile"`
	Version kong.VersionFlag `help:"Print version and exit"                              short:"V"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate statements"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format statements"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// environment is the process state a CLI run reads and writes.
type environment struct {
	configDir string
	cacheDir  string
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	exit      func(code int)
}

// Run executes the calc CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, environment{
		configDir: pkg.ConfigDir(),
		cacheDir:  pkg.CacheDir(),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		exit:      exit,
	}, args...)
}

func run(ctx context.Context, env environment, args ...string) error {
	var cli CLI

	for _, dir := range []string{env.configDir, env.cacheDir} {
		if err := os.MkdirAll(dir, pkg.DirMode); err != nil {
			return err
		}
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: env.configDir,
		cmd.CacheIdentifier:  env.cacheDir,
		"version":            pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Lang.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Config(log.WithOutput(env.stderr))

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	opts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(env.exit),
		kong.Writers(env.stdout, env.stderr),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Lang.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(pkg.Prefix()),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		vars,
	}

	parser, err := kong.New(&cli, append(opts, configFiles(env.configDir)...)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithStdin(ctx, env.stdin)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithLangOptions(ctx, cli.Lang.options(log.Default())...)
	ctx = cmd.WithDelimiters(ctx, cli.Lang.Delimiters)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
