// Package mergereq implements the publish phase of a
// release: it opens a merge request from the mirror branch
// into the target branch, titled after the release version
// and described by the release notes.
package mergereq

import (
	"context"
	"fmt"

	"github.com/byte4ever/semrel_gitlab/semrel/config"
	"github.com/byte4ever/semrel_gitlab/semrel/gitlab"
)

// Logger receives progress messages.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Creator opens merge requests.
type Creator interface {
	CreateMergeRequest(
		ctx context.Context,
		pid string,
		opts gitlab.MergeRequestOptions,
	) (*gitlab.MergeRequest, error)
}

// Requester opens the release merge request.
type Requester struct {
	Client Creator
	Logger Logger
}

// Create opens a merge request from cfg.SourceBranch into
// cfg.TargetBranch, asking GitLab to delete the source
// branch once merged. The source branch is left in place
// when creation fails.
func (r *Requester) Create(
	ctx context.Context,
	cfg *config.Resolved,
	rel config.Release,
) (*gitlab.MergeRequest, error) {
	const errCtx = "creating release merge request"

	r.Logger.Info(
		"creating merge request",
		"title", cfg.Title,
	)
	r.Logger.Debug(
		"merge request branches",
		"source", cfg.SourceBranch,
		"target", cfg.TargetBranch,
	)

	mr, err := r.Client.CreateMergeRequest(
		ctx,
		cfg.ProjectID,
		gitlab.MergeRequestOptions{
			SourceBranch:       cfg.SourceBranch,
			TargetBranch:       cfg.TargetBranch,
			Title:              cfg.Title,
			Description:        rel.Notes,
			RemoveSourceBranch: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	r.Logger.Info("merge request created", "url", mr.WebURL)

	return mr, nil
}
