package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/SirJson/commandspec/internal/config"
	"github.com/SirJson/commandspec/internal/errors"
	"github.com/SirJson/commandspec/internal/render"
	"github.com/SirJson/commandspec/internal/template"
)

// Variable to allow mocking in tests
var osGetwd = os.Getwd

// configPath returns the --config path or .commandspec.yml in the current directory
func configPath(cmd *cli.Command) (string, error) {
	if path := cmd.String("config"); path != "" {
		return path, nil
	}
	cwd, err := osGetwd()
	if err != nil {
		return "", errors.DirectoryAccessFailed("access current", ".", err)
	}
	return filepath.Join(cwd, config.ConfigFileName), nil
}

// loadConfig loads the task file. A missing default file yields an empty
// configuration; a missing --config file is an error.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, errors.ConfigLoadFailed(path, err)
		}
		return cfg, nil
	}

	cwd, err := osGetwd()
	if err != nil {
		return nil, errors.DirectoryAccessFailed("access current", ".", err)
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return nil, errors.ConfigLoadFailed(filepath.Join(cwd, config.ConfigFileName), err)
	}
	return cfg, nil
}

// plan is a parsed task ready to render
type plan struct {
	source    string
	templates []*template.Template
	bindings  render.Bindings
}

// resolvePlan builds the plan for --template or the task named by the first argument
func resolvePlan(cmd *cli.Command, usage string) (*plan, error) {
	var p *plan
	if text := cmd.String("template"); text != "" {
		tmpl, err := parseAdHoc(cmd, text)
		if err != nil {
			return nil, errors.TemplateParseFailed("--template", err)
		}
		p = &plan{source: "--template", templates: []*template.Template{tmpl}, bindings: render.Bindings{}}
	} else {
		name := cmd.Args().First()
		if name == "" {
			return nil, errors.TaskNameRequired(usage)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		task, ok := cfg.Task(name)
		if !ok {
			return nil, errors.TaskNotFound(name, cfg.TaskNames())
		}

		source := fmt.Sprintf("task '%s'", name)
		templates, err := task.Parse()
		if err != nil {
			return nil, errors.TemplateParseFailed(source, err)
		}
		p = &plan{source: source, templates: templates, bindings: task.Bindings.Values()}
	}

	bindings, err := overridesFromCommand(cmd).apply(p.bindings)
	if err != nil {
		return nil, err
	}
	p.bindings = bindings
	return p, nil
}

func parseAdHoc(cmd *cli.Command, text string) (*template.Template, error) {
	if cmd.Bool("shell") || cmd.Bool("elevated") {
		return template.ParseScript(text, template.ScriptOptions{Elevated: cmd.Bool("elevated")})
	}
	return template.Parse(text)
}

// render substitutes the bindings into every template. Nothing is returned
// unless all of them render.
func (p *plan) render() ([]*render.Rendered, error) {
	out := make([]*render.Rendered, 0, len(p.templates))
	for _, tmpl := range p.templates {
		r, err := render.Render(tmpl, p.bindings)
		if err != nil {
			return nil, errors.BindingFailed(err, boundNames(p.bindings))
		}
		out = append(out, r)
	}
	return out, nil
}
