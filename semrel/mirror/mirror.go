package mirror

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/byte4ever/semrel_gitlab/semrel/config"
	"github.com/byte4ever/semrel_gitlab/semrel/git"
	"github.com/byte4ever/semrel_gitlab/semrel/gitlab"
)

const (
	// RemoteName is the git remote the mirror is
	// pushed through.
	RemoteName = "gitlab"
	// TokenUser is the basic-auth user GitLab accepts
	// alongside job and access tokens.
	TokenUser = "gitlab-ci-token"
)

// Logger receives progress messages.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// ProjectReader reads GitLab project metadata.
type ProjectReader interface {
	ShowProject(
		ctx context.Context,
		pid string,
	) (*gitlab.Project, error)
}

// VCS is the local version-control client.
type VCS interface {
	SetConfig(ctx context.Context, key string, value string) error
	EnsureRemote(ctx context.Context, name string, url string) (bool, error)
	ForcePush(ctx context.Context, remote string, refspec string) error
}

// Publisher pushes the current commit to the mirror.
type Publisher struct {
	Projects ProjectReader
	VCS      VCS
	Logger   Logger
}

// Publish fetches the mirror project, makes sure the
// "gitlab" remote exists and force-pushes HEAD to
// cfg.SourceBranch. An existing remote keeps its URL.
func (p *Publisher) Publish(
	ctx context.Context,
	cfg *config.Resolved,
) error {
	const errCtx = "publishing mirror"

	// Step 1: Resolve the project path.
	prj, err := p.Projects.ShowProject(ctx, cfg.ProjectID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 2: Build the authenticated push URL.
	pushURL, err := PushURL(
		cfg.APIBaseURL, prj.PathWithNamespace, cfg.APIToken,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 3: Accept self-signed certificates unless
	// verification was asked for.
	if !cfg.SSLVerify {
		if err := p.VCS.SetConfig(
			ctx, "http.sslVerify", "false",
		); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	// Step 4: Add the remote once.
	added, err := p.VCS.EnsureRemote(ctx, RemoteName, pushURL)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	p.Logger.Debug(
		"mirror remote ready",
		"remote", RemoteName,
		"added", added,
		"project", prj.PathWithNamespace,
	)

	// Step 5: Overwrite the mirror branch.
	if err := p.VCS.ForcePush(
		ctx, RemoteName, "HEAD:"+cfg.SourceBranch,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	p.Logger.Info(
		"force-pushed current state to gitlab",
		"branch", cfg.SourceBranch,
	)

	return nil
}

// PushURL returns the clone URL of project
// pathWithNamespace on the instance at baseURL with token
// embedded as credentials. Any path prefix of baseURL is
// kept, so instances served under a sub-path work.
func PushURL(
	baseURL string,
	pathWithNamespace string,
	token string,
) (string, error) {
	const errCtx = "building push url"

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w: %w", errCtx, config.ErrConfiguration, err,
		)
	}

	u.User = url.UserPassword(TokenUser, token)
	u.Path = path.Join(
		"/", u.Path,
		strings.Trim(pathWithNamespace, "/")+".git",
	)
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}

// Compile-time check that the git client satisfies VCS.
var _ VCS = (*git.Repo)(nil)
