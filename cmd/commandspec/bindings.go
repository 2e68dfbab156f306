package main

import (
	"sort"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/SirJson/commandspec/internal/errors"
	"github.com/SirJson/commandspec/internal/render"
	"github.com/SirJson/commandspec/internal/template"
	"github.com/SirJson/commandspec/internal/value"
)

// bindingFlags returns fresh flag definitions shared by run and render
func bindingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "template",
			Aliases: []string{"t"},
			Usage:   "Render an ad hoc template instead of a task",
		},
		&cli.BoolFlag{
			Name:  "shell",
			Usage: "Treat --template as a shell script run through sh -c",
		},
		&cli.BoolFlag{
			Name:  "elevated",
			Usage: "Run the --template script through pkexec (implies --shell)",
		},
		&cli.StringSliceFlag{
			Name:    "set",
			Aliases: []string{"s"},
			Usage:   "Bind a literal value: --set name=value",
		},
		&cli.StringSliceFlag{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "Bind a list, split like shell words: --list 'name=a \"b c\"'",
		},
		&cli.StringSliceFlag{
			Name:    "unset",
			Aliases: []string{"u"},
			Usage:   "Bind an absent optional: --unset name",
		},
		&cli.StringSliceFlag{
			Name:    "env-file",
			Aliases: []string{"e"},
			Usage:   "Bind literal values from a dotenv file",
		},
	}
}

// bindingOverrides collects the values given on the command line
type bindingOverrides struct {
	EnvFiles []string
	Set      []string
	List     []string
	Unset    []string
}

func overridesFromCommand(cmd *cli.Command) bindingOverrides {
	return bindingOverrides{
		EnvFiles: cmd.StringSlice("env-file"),
		Set:      cmd.StringSlice("set"),
		List:     cmd.StringSlice("list"),
		Unset:    cmd.StringSlice("unset"),
	}
}

// apply layers the overrides onto base in precedence order: env files, then
// --set, then --list, then --unset
func (o bindingOverrides) apply(base render.Bindings) (render.Bindings, error) {
	out := base.Merge(nil)

	if len(o.EnvFiles) > 0 {
		values, err := godotenv.Read(o.EnvFiles...)
		if err != nil {
			return nil, errors.InvalidBindingFlag("env-file", strings.Join(o.EnvFiles, ","), err.Error())
		}
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !template.IsIdentifier(name) {
				return nil, errors.InvalidBindingFlag("env-file", name, "not a valid placeholder name")
			}
			out[name] = value.Literal(values[name])
		}
	}

	for _, raw := range o.Set {
		name, text, err := splitBinding("set", raw)
		if err != nil {
			return nil, err
		}
		out[name] = value.Literal(text)
	}

	for _, raw := range o.List {
		name, text, err := splitBinding("list", raw)
		if err != nil {
			return nil, err
		}
		words, err := shlex.Split(text, true)
		if err != nil {
			return nil, errors.InvalidBindingFlag("list", raw, err.Error())
		}
		out[name] = value.List(words...)
	}

	for _, name := range o.Unset {
		name = strings.TrimSpace(name)
		if !template.IsIdentifier(name) {
			return nil, errors.InvalidBindingFlag("unset", name, "not a valid placeholder name")
		}
		out[name] = value.None()
	}

	return out, nil
}

func splitBinding(flag, raw string) (string, string, error) {
	name, text, ok := strings.Cut(raw, "=")
	if !ok {
		return "", "", errors.InvalidBindingFlag(flag, raw, "expected name=value")
	}
	name = strings.TrimSpace(name)
	if !template.IsIdentifier(name) {
		return "", "", errors.InvalidBindingFlag(flag, raw, "not a valid placeholder name")
	}
	return name, text, nil
}

func boundNames(b render.Bindings) []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
