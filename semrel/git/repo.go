package git

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/byte4ever/semrel_gitlab/semrel/exec"
)

// ErrPush is wrapped by every error returned from Repo.
var ErrPush = errors.New("git push failed")

// Remote is a configured git remote.
type Remote struct {
	// Name is the remote name (e.g. "origin").
	Name string
	// URL is the fetch URL. It may carry credentials
	// and must not be logged as-is.
	URL string
}

// Repo is a local git working tree. The zero value
// operates on the current working directory.
type Repo struct {
	// Dir is the working tree location. Empty means
	// the process working directory.
	Dir string
	// Logger receives the executed git commands and
	// their redacted output. Nil means slog.Default.
	Logger *slog.Logger
}

// SetConfig sets a repository-local git config value.
func (r *Repo) SetConfig(
	ctx context.Context,
	key string,
	value string,
) error {
	const errCtx = "setting git config"

	if _, err := exec.Ex(
		ctx, r.Logger, r.Dir, "git",
		"config", "--local", key, value,
	); err != nil {
		return fmt.Errorf(
			"%s: %s: %w: %w", errCtx, key, ErrPush, err,
		)
	}

	return nil
}

// Remotes lists the configured remotes with their fetch
// URLs, in the order git reports them.
func (r *Repo) Remotes(
	ctx context.Context,
) ([]Remote, error) {
	const errCtx = "listing git remotes"

	out, err := exec.Ex(ctx, r.Logger, r.Dir, "git", "remote", "-v")
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w: %w", errCtx, ErrPush, err,
		)
	}

	return parseRemotes(out), nil
}

// AddRemote registers a new remote.
func (r *Repo) AddRemote(
	ctx context.Context,
	name string,
	url string,
) error {
	const errCtx = "adding git remote"

	if _, err := exec.Ex(
		ctx, r.Logger, r.Dir, "git", "remote", "add", name, url,
	); err != nil {
		return fmt.Errorf(
			"%s: %s: %w: %w", errCtx, name, ErrPush, err,
		)
	}

	return nil
}

// EnsureRemote adds the remote name pointing at url
// unless a remote with that name already exists. An
// existing remote is reused as-is, even when its URL
// differs from url. Returns true when the remote was
// added.
func (r *Repo) EnsureRemote(
	ctx context.Context,
	name string,
	url string,
) (bool, error) {
	const errCtx = "ensuring git remote"

	remotes, err := r.Remotes(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, rm := range remotes {
		if rm.Name == name {
			r.logger().Info(
				"reusing existing remote",
				"remote", name,
			)

			return false, nil
		}
	}

	if err := r.AddRemote(ctx, name, url); err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return true, nil
}

// ForcePush force-pushes refspec (e.g.
// "HEAD:release/v1.0.0") to remote, overwriting the
// remote branch history.
func (r *Repo) ForcePush(
	ctx context.Context,
	remote string,
	refspec string,
) error {
	const errCtx = "force-pushing"

	if _, err := exec.Ex(
		ctx, r.Logger, r.Dir, "git", "push", "-f", remote, refspec,
	); err != nil {
		return fmt.Errorf(
			"%s: %s to %s: %w: %w",
			errCtx, refspec, remote, ErrPush, err,
		)
	}

	return nil
}

func (r *Repo) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}

	return slog.Default()
}

// parseRemotes turns `git remote -v` output into one
// Remote per name, keeping the fetch URL.
func parseRemotes(out string) []Remote {
	var (
		remotes []Remote
		seen    = make(map[string]struct{})
	)

	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}

		if _, ok := seen[fields[0]]; ok {
			continue
		}

		seen[fields[0]] = struct{}{}
		remotes = append(remotes, Remote{
			Name: fields[0],
			URL:  fields[1],
		})
	}

	return remotes
}
