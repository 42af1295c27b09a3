// Package exec provides shell command execution helpers
// that never leak URL credentials into logs or errors.
package exec

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
)

// credentialRe matches the password part of URL
// userinfo ("scheme://user:password@").
var credentialRe = regexp.MustCompile(
	`([a-zA-Z][a-zA-Z0-9+.-]*://[^:/@\s]*):[^@\s]*@`,
)

// Redact masks passwords embedded in URLs found
// anywhere in s.
func Redact(s string) string {
	return credentialRe.ReplaceAllString(s, "$1:xxxxx@")
}

// Ex executes the named command in the given directory and
// returns combined stdout+stderr output. Pass empty dir to
// use the current working directory and a nil logger to use
// slog.Default. Arguments and output are redacted before
// being logged or embedded in the returned error; the
// returned output is not.
func Ex(
	ctx context.Context,
	logger *slog.Logger,
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	if logger == nil {
		logger = slog.Default()
	}

	cmdLine := Redact(strings.Join(arg, " "))

	logger.Info(
		"executing",
		"cmd", name,
		"args", cmdLine,
	)

	//nolint:gosec // commands are built by this module
	cmd := exec.CommandContext(ctx, name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	by, err := cmd.CombinedOutput()

	logger.Info("output", "result", Redact(string(by)))

	if err != nil {
		return string(by), fmt.Errorf(
			"%s: %s %s: %s: %w",
			errCtx, name, cmdLine,
			Redact(strings.TrimSpace(string(by))), err,
		)
	}

	return string(by), nil
}
