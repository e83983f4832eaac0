package cli

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/calc/cli/cmd"
)

// loadTOML is a [kong.ConfigurationLoader] for TOML configuration files.
//
// Flag names with hyphens (e.g., "log-level") are written with underscores
// in the config file (e.g., "log_level"):
//
//	log_level = "debug"
//	log_pretty = false
//	lang_overflow = "saturate"
//	source = ["~/.config/calc/constants.calc"]
//
// Command-line flags override config file values.
func loadTOML(r io.Reader) (kong.Resolver, error) {
	var values map[string]any

	if _, err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, err
	}

	return newConfig(values), nil
}

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files,
// keyed like [loadTOML].
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var values map[string]any

	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}

	return newConfig(values), nil
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

func newConfig(values map[string]any) config {
	c := make(config, len(values))

	for key, value := range values {
		c[key] = normalize(value)
	}

	return c
}

// normalize converts numbers to strings, which Kong decodes for any numeric
// flag type, and does the same for the elements of lists.
func normalize(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case int:
		return strconv.Itoa(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		list := make([]any, len(v))
		for i, e := range v {
			list[i] = normalize(e)
		}

		return list

	default:
		return value
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens but config keys may use either form.
	for _, name := range []string{cmd.ConfigKey(flag.Name), flag.Name} {
		if value, ok := c[name]; ok {
			return value, nil
		}
	}

	return nil, nil //nolint:nilnil
}

// configFiles returns Kong options loading every configuration file in dir,
// one per supported format. Files that do not exist are ignored.
func configFiles(dir string) []kong.Option {
	loaders := map[string]kong.ConfigurationLoader{
		"json": kong.JSON,
		"toml": loadTOML,
		"yaml": loadYAML,
	}

	opts := make([]kong.Option, 0, len(loaders))

	for _, format := range cmd.ConfigFormats() {
		path := filepath.Join(dir, cmd.ConfigFile(format))
		opts = append(opts, kong.Configuration(loaders[format], path))
	}

	return opts
}
