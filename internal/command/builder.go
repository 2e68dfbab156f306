package command

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// RunOptions configures how commands are spawned
type RunOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Environ returns the inherited environment. Defaults to os.Environ.
	Environ func() []string
}

func (o RunOptions) withDefaults() RunOptions {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Environ == nil {
		o.Environ = os.Environ
	}
	return o
}

// Build produces the *exec.Cmd for cmd. Template environment assignments
// override the inherited environment rather than replacing it.
func Build(ctx context.Context, cmd Command, opts RunOptions) *exec.Cmd {
	opts = opts.withDefaults()

	dir := resolveDir(cmd.WorkDir)
	// #nosec G204 - The program comes from a parsed template controlled by the caller
	c := exec.CommandContext(ctx, resolveProgram(cmd.Name, dir), cmd.Args...)
	c.Dir = dir
	c.Env = MergeEnv(opts.Environ(), withPWD(cmd.Env, dir))
	c.Stdin = opts.Stdin
	c.Stdout = opts.Stdout
	c.Stderr = opts.Stderr
	return c
}

// MergeEnv layers overrides on top of base (NAME=value pairs). Overridden
// variables keep their position; new ones are appended in name order.
func MergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	applied := make(map[string]bool, len(overrides))

	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if key, ok := lookupEnvKey(overrides, name); ok {
			if applied[key] {
				continue
			}
			applied[key] = true
			out = append(out, key+"="+overrides[key])
			continue
		}
		out = append(out, kv)
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		if !applied[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, name+"="+overrides[name])
	}
	return out
}

// withPWD points PWD at the new working directory on POSIX systems unless the
// template assigns it explicitly.
func withPWD(env map[string]string, dir string) map[string]string {
	if dir == "" || runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		return env
	}
	if _, ok := env["PWD"]; ok {
		return env
	}
	out := make(map[string]string, len(env)+1)
	for k, v := range env {
		out[k] = v
	}
	out["PWD"] = dir
	return out
}

func lookupEnvKey(overrides map[string]string, name string) (string, bool) {
	if _, ok := overrides[name]; ok {
		return name, true
	}
	if runtime.GOOS != "windows" {
		return "", false
	}
	for key := range overrides {
		if strings.EqualFold(key, name) {
			return key, true
		}
	}
	return "", false
}

// resolveDir makes a relative working directory absolute; an empty dir means
// the current directory.
func resolveDir(dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

// resolveProgram joins a relative program path to dir on Windows, where the
// working directory is applied after the program is resolved.
func resolveProgram(name, dir string) string {
	if runtime.GOOS != "windows" || dir == "" || filepath.IsAbs(name) {
		return name
	}
	if !strings.ContainsAny(name, `/\`) {
		return name
	}
	return filepath.Join(dir, name)
}
