// client.go
package uv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

// Client runs external commands and captures their output
type Client struct {
	logger *log.Logger
}

// NewClient creates a client logging commands to logger
func NewClient(logger *log.Logger) *Client {
	return &Client{logger: logger}
}

// Output runs name with args and returns trimmed stdout. A non-zero exit
// includes the captured stderr in the error.
func (c *Client) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("exec", "cmd", Display(name, args...))

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg != "" {
			return "", fmt.Errorf("%s: %w: %s", Display(name, args...), err, msg)
		}
		return "", fmt.Errorf("%s: %w", Display(name, args...), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Run runs the command discarding stdout
func (c *Client) Run(ctx context.Context, name string, args ...string) error {
	_, err := c.Output(ctx, name, args...)
	return err
}

// Display renders a command line with shell quoting for logs and errors
func Display(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, word := range append([]string{name}, args...) {
		quoted, err := syntax.Quote(word, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", word)
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}
