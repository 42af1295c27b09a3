package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/byte4ever/semrel_gitlab/semrel/config"
	"github.com/byte4ever/semrel_gitlab/semrel/git"
	"github.com/byte4ever/semrel_gitlab/semrel/gitlab"
	"github.com/byte4ever/semrel_gitlab/semrel/mergereq"
	"github.com/byte4ever/semrel_gitlab/semrel/mirror"
)

// ProjectClient is the GitLab API surface both hooks use.
type ProjectClient interface {
	mirror.ProjectReader
	mergereq.Creator
}

// ClientFactory builds a ProjectClient for a resolved
// configuration.
type ClientFactory func(cfg gitlab.Config) (ProjectClient, error)

// Options carries the host-provided collaborators. The
// zero value reads nothing from the environment, logs to
// slog.Default and uses git in the working directory.
type Options struct {
	// Env is the environment snapshot consulted before
	// the plugin configuration.
	Env config.Env
	// Logger receives progress messages, including the
	// git commands run by the default VCS.
	Logger *slog.Logger
	// Dir is the git working tree. Empty means the
	// process working directory.
	Dir string
	// NewClient overrides the GitLab client factory.
	NewClient ClientFactory
	// VCS overrides the git client.
	VCS mirror.VCS
}

// Prepare force-pushes HEAD to the source branch of the
// GitLab mirror.
func Prepare(
	ctx context.Context,
	pc config.PluginConfig,
	rel config.Release,
	opts Options,
) error {
	const errCtx = "preparing gitlab release"

	cfg, err := config.Resolve(pc, opts.Env, rel)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	client, err := opts.client(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	pub := &mirror.Publisher{
		Projects: client,
		VCS:      opts.vcs(),
		Logger:   opts.logger(),
	}

	if err := pub.Publish(ctx, cfg); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Publish opens the release merge request from the source
// branch into the target branch.
func Publish(
	ctx context.Context,
	pc config.PluginConfig,
	rel config.Release,
	opts Options,
) error {
	const errCtx = "publishing gitlab release"

	cfg, err := config.ResolvePublish(pc, opts.Env, rel)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	client, err := opts.client(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	rq := &mergereq.Requester{
		Client: client,
		Logger: opts.logger(),
	}

	if _, err := rq.Create(ctx, cfg, rel); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func (o Options) client(
	cfg *config.Resolved,
) (ProjectClient, error) {
	factory := o.NewClient
	if factory == nil {
		factory = newGitlabClient
	}

	return factory(gitlab.Config{
		Host:        cfg.APIBaseURL,
		AccessToken: cfg.APIToken,
	})
}

func (o Options) vcs() mirror.VCS {
	if o.VCS != nil {
		return o.VCS
	}

	return &git.Repo{Dir: o.Dir, Logger: o.logger()}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.Default()
}

func newGitlabClient(cfg gitlab.Config) (ProjectClient, error) {
	return gitlab.NewClient(cfg)
}
