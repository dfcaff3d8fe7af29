package compose

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ThomasCrouzet/stackctl/internal/service"
	"github.com/ThomasCrouzet/stackctl/pkg/logging"
)

const subsystem = "Compose"

// execCommand wraps exec.CommandContext for testability.
var execCommand = exec.CommandContext

// Runner runs docker compose for the stack's project.
type Runner struct {
	// Binary is "docker" (compose plugin) or a standalone
	// "docker-compose".
	Binary      string
	ProjectName string
	EnvFile     string
	Dir         string
	Stdout      io.Writer
	Stderr      io.Writer
}

var _ service.Starter = (*Runner)(nil)

// Args returns the full argument list for one compose subcommand.
func (r *Runner) Args(files, profiles []string, sub ...string) []string {
	var args []string
	if !r.standalone() {
		args = append(args, "compose")
	}
	if r.ProjectName != "" {
		args = append(args, "-p", r.ProjectName)
	}
	if r.EnvFile != "" {
		if _, err := os.Stat(r.EnvFile); err == nil {
			args = append(args, "--env-file", r.EnvFile)
		}
	}
	for _, f := range files {
		args = append(args, "-f", f)
	}
	for _, p := range profiles {
		args = append(args, "--profile", p)
	}
	return append(args, sub...)
}

func (r *Runner) binary() string {
	if r.Binary == "" {
		return "docker"
	}
	return r.Binary
}

func (r *Runner) standalone() bool {
	return strings.HasPrefix(filepath.Base(r.binary()), "docker-compose")
}

func (r *Runner) run(ctx context.Context, environ []string, args []string) error {
	logging.Debug(subsystem, "%s %s", r.binary(), strings.Join(args, " "))
	cmd := execCommand(ctx, r.binary(), args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), environ...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// Up starts the given fragments detached.
func (r *Runner) Up(ctx context.Context, files, profiles []string, environ []string) error {
	return r.run(ctx, environ, r.Args(files, profiles, "up", "-d"))
}

// Down stops and removes the project's containers.
func (r *Runner) Down(ctx context.Context, files, profiles []string, environ []string) error {
	return r.run(ctx, environ, r.Args(files, profiles, "down"))
}

// Ps lists the project's containers.
func (r *Runner) Ps(ctx context.Context, files, profiles []string, environ []string) error {
	return r.run(ctx, environ, r.Args(files, profiles, "ps"))
}
