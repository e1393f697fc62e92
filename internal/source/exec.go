package source

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExecSource runs a command and uses its stdout as the CSV export,
// e.g. a script that pulls the latest sheet.
type ExecSource struct {
	command string
	args    []string
}

// NewExecSource creates a source that runs the given command with arguments.
func NewExecSource(command string, args []string) *ExecSource {
	return &ExecSource{
		command: command,
		args:    args,
	}
}

// Name returns the source identifier.
func (s *ExecSource) Name() string {
	return fmt.Sprintf("exec:%s", s.command)
}

// Load runs the command to completion. A non-zero exit is an error carrying
// the last line of stderr.
func (s *ExecSource) Load(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.command, s.args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return nil, fmt.Errorf("run %s: %w: %s", s.command, err, msg)
		}
		return nil, fmt.Errorf("run %s: %w", s.command, err)
	}
	return stdout.Bytes(), nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
