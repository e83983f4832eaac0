package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/log"
	"github.com/ardnew/calc/pkg"
	"github.com/ardnew/calc/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configFormats lists the configuration file formats in resolution order.
var configFormats = []string{"json", "toml", "yaml"} //nolint:gochecknoglobals

// ConfigFormats returns the supported configuration file formats.
func ConfigFormats() []string { return slices.Clone(configFormats) }

// ConfigFile returns the name of the configuration file in format.
func ConfigFile(format string) string { return ConfigIdentifier + "." + format }

// Init generates a configuration file with current flag values.
type Init struct {
	Force  bool   `help:"Overwrite existing configuration file" short:"f"`
	Format string `help:"Configuration file format (${enum})"  short:"F" default:"toml" enum:"json,toml,yaml"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confDir, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config directory undefined")
	}

	confPath := filepath.Join(confDir, ConfigFile(i.Format))

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := i.encode(ctx, i.values(ctx))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if err := os.MkdirAll(confDir, pkg.DirMode); err != nil {
		return ErrWriteConfig.
			With(slog.String("dir", confDir)).
			Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.String("format", i.Format),
	)

	return nil
}

// encode renders values in the configured format.
func (i *Init) encode(ctx context.Context, values map[string]any) ([]byte, error) {
	switch i.Format {
	case "json":
		data, err := json.MarshalIndent(values, "", strings.Repeat(" ", defaultConfigIndent))
		if err != nil {
			return nil, ErrJSONMarshal.Wrap(err)
		}

		return append(data, '\n'), nil

	case "toml":
		var buf bytes.Buffer

		enc := toml.NewEncoder(&buf)
		enc.Indent = strings.Repeat(" ", defaultConfigIndent)

		if err := enc.Encode(values); err != nil {
			return nil, ErrTOMLMarshal.Wrap(err)
		}

		return buf.Bytes(), nil

	case "yaml":
		data, err := yaml.MarshalContext(ctx, values, yaml.Indent(defaultConfigIndent))
		if err != nil {
			return nil, ErrYAMLMarshal.Wrap(err)
		}

		return data, nil

	default:
		return nil, ErrUnknownFormat.With(slog.String("format", i.Format))
	}
}

// values collects the current global flag values keyed by configuration name.
func (i *Init) values(ctx context.Context) map[string]any {
	ktx := kongContextFrom(ctx)

	values := make(map[string]any)

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := i.flagValue(ctx, flag); val != nil {
			values[ConfigKey(flag.Name)] = val
		}
	}

	return values
}

// ConfigKey returns the configuration file key of the named flag.
func ConfigKey(flag string) string { return strings.ReplaceAll(flag, "-", "_") }

// flagValue returns the configuration value of a flag, or nil if it is unset
// or empty.
func (i *Init) flagValue(ctx context.Context, flag *kong.Flag) any {
	ktx := kongContextFrom(ctx)

	val := ktx.FlagValue(flag)
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case bool:
		return v

	case int, int8, int16, int32, int64:
		return reflect.ValueOf(v).Int()

	case uint, uint8, uint16, uint32, uint64:
		return int64(reflect.ValueOf(v).Uint()) //nolint:gosec

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	default:
		// Named string types such as the log level
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.String {
			if rv.Len() == 0 {
				return nil
			}

			return rv.String()
		}

		return fmt.Sprint(v)
	}
}
