package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/SirJson/commandspec/internal/render"
	"github.com/SirJson/commandspec/internal/template"
	"github.com/SirJson/commandspec/internal/value"
)

// Config represents the commandspec task file
type Config struct {
	Version string          `yaml:"version"`
	Tasks   map[string]Task `yaml:"tasks,omitempty"`
}

// Task is a named set of templates with default bindings
type Task struct {
	Description string `yaml:"description,omitempty"`
	// Shell parses the templates as shell scripts run through `sh -c`
	Shell bool `yaml:"shell,omitempty"`
	// Elevated runs shell scripts through pkexec; implies Shell
	Elevated bool     `yaml:"elevated,omitempty"`
	Template string   `yaml:"template,omitempty"`
	Steps    []string `yaml:"steps,omitempty"`
	Bindings Bindings `yaml:"bindings,omitempty"`
}

const (
	ConfigFileName = ".commandspec.yml"
	CurrentVersion = "1.0"
	optionalKey    = "optional"
)

// SampleConfig is the commented file written by `commandspec init`
const SampleConfig = `# commandspec task file
version: "1.0"

tasks:
  hello:
    description: Print a greeting
    template: |
      export GREETING=hello
      echo {greeting} {names}
    bindings:
      greeting: hello
      names: [world]

  build:
    description: Build and run a cargo binary
    template: |
      cd {path}
      export RUST_LOG=full
      cargo run {release_flag} --bin {bin_name} -- {args}
    bindings:
      path: .
      release_flag: null # set with --set release_flag=--release
      bin_name: binary
      args: []

  # Script tasks run through sh -c with set -e; values are shell-quoted.
  # elevated: true runs the script through pkexec.
  tidy:
    description: Format and vet the module
    shell: true
    steps:
      - gofmt -l {dir}
      - go vet ./...
    bindings:
      dir: .
`

// LoadConfig loads .commandspec.yml from dir. A missing file yields an empty
// configuration.
func LoadConfig(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{Version: CurrentVersion}, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads and validates the configuration at path, which must exist
func LoadFile(path string) (*Config, error) {
	config, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// ReadFile decodes the configuration at path without parsing its templates
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Version == "" {
		config.Version = CurrentVersion
	}

	return &config, nil
}

// Validate defaults the version and parses every task template
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = CurrentVersion
	}

	for _, name := range c.TaskNames() {
		if name == "" {
			return errors.New("task name must not be empty")
		}
		task := c.Tasks[name]
		if _, err := task.Parse(); err != nil {
			return fmt.Errorf("task %q: %w", name, err)
		}
	}

	return nil
}

// TaskNames returns the task names in sorted order
func (c *Config) TaskNames() []string {
	names := make([]string, 0, len(c.Tasks))
	for name := range c.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Task looks up a task by name
func (c *Config) Task(name string) (Task, bool) {
	task, ok := c.Tasks[name]
	return task, ok
}

// Templates returns the template texts to run in order: Template, then Steps
func (t Task) Templates() []string {
	var texts []string
	if t.Template != "" {
		texts = append(texts, t.Template)
	}
	return append(texts, t.Steps...)
}

// IsShell reports whether the task runs in script mode
func (t Task) IsShell() bool {
	return t.Shell || t.Elevated
}

// Parse parses every template of the task
func (t Task) Parse() ([]*template.Template, error) {
	texts := t.Templates()
	if len(texts) == 0 {
		return nil, errors.New("task requires 'template' or 'steps'")
	}

	parsed := make([]*template.Template, 0, len(texts))
	for i, text := range texts {
		var (
			tmpl *template.Template
			err  error
		)
		if t.IsShell() {
			tmpl, err = template.ParseScript(text, template.ScriptOptions{Elevated: t.Elevated})
		} else {
			tmpl, err = template.Parse(text)
		}
		if err != nil {
			if len(texts) > 1 {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
			return nil, err
		}
		parsed = append(parsed, tmpl)
	}
	return parsed, nil
}

// Bindings holds default placeholder values. In YAML a scalar is a literal, a
// sequence is a list, null is an absent optional and {optional: v} is a
// present optional.
type Bindings map[string]value.Value

// Values returns a copy usable for rendering
func (b Bindings) Values() render.Bindings {
	out := make(render.Bindings, len(b))
	maps.Copy(out, b)
	return out
}

// UnmarshalYAML decodes the binding mapping
func (b *Bindings) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: bindings must be a mapping", node.Line)
	}

	out := make(Bindings, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || !template.IsIdentifier(key.Value) {
			return fmt.Errorf("line %d: invalid binding name %q", key.Line, key.Value)
		}
		v, err := decodeValue(val)
		if err != nil {
			return fmt.Errorf("binding %q: %w", key.Value, err)
		}
		out[key.Value] = v
	}
	*b = out
	return nil
}

func decodeValue(node *yaml.Node) (value.Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return decodeValue(node.Alias)
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if isNull(node) {
			return value.None(), nil
		}
		return value.Literal(node.Value), nil

	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for i, elem := range node.Content {
			if elem.Kind == yaml.AliasNode && elem.Alias != nil {
				elem = elem.Alias
			}
			if elem.Kind != yaml.ScalarNode || isNull(elem) {
				return value.Value{}, fmt.Errorf("line %d: list element %d must be a string", elem.Line, i+1)
			}
			items = append(items, elem.Value)
		}
		return value.List(items...), nil

	case yaml.MappingNode:
		if len(node.Content) != 2 || node.Content[0].Value != optionalKey {
			return value.Value{}, fmt.Errorf("line %d: mapping bindings take exactly one %q key", node.Line, optionalKey)
		}
		inner := node.Content[1]
		if inner.Kind != yaml.ScalarNode {
			return value.Value{}, fmt.Errorf("line %d: %q must be a string or null", inner.Line, optionalKey)
		}
		if isNull(inner) {
			return value.None(), nil
		}
		return value.Some(inner.Value), nil

	default:
		return value.Value{}, fmt.Errorf("line %d: unsupported binding value", node.Line)
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
