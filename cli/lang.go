package cli

import (
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// langConfig selects the parser and evaluator behavior shared by all
// commands.
type langConfig struct {
	Overflow      string `default:"error"            enum:"${langOverflowEnum}" help:"Integer overflow policy (${enum})."`
	AllowTrailing bool   `default:"false"                                      help:"Ignore tokens after a complete statement." negatable:""`
	MaxDepth      int    `default:"${langMaxDepth}"                            help:"Maximum parenthesis nesting depth."`
	Delimiters    string `                                                     help:"Characters separating statements (default ';' and newline)."`
}

func (*langConfig) vars() kong.Vars {
	return kong.Vars{
		"langOverflowEnum": strings.Join(lang.OverflowPolicies(), ","),
		"langMaxDepth":     strconv.Itoa(lang.DefaultMaxDepth),
	}
}

func (*langConfig) group() kong.Group {
	var group kong.Group

	group.Key = "lang"
	group.Title = "Language options"

	return group
}

// options returns the parser and evaluator options selected by the flags.
func (c *langConfig) options(logger log.Logger) []lang.Option {
	policy, _ := lang.ParseOverflowPolicy(c.Overflow)

	return []lang.Option{
		lang.WithOverflow(policy),
		lang.WithAllowTrailing(c.AllowTrailing),
		lang.WithMaxDepth(c.MaxDepth),
		lang.WithLogger(logger),
	}
}
