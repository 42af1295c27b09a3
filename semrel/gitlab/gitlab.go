package gitlab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"
)

// DefaultHost is used when Config.Host is empty.
const DefaultHost = "https://gitlab.com"

// ErrRemoteAPI is wrapped by every error returned from a
// Client call. The client-go error remains in the chain:
// gl.ErrNotFound for HTTP 404, *gl.ErrorResponse for other
// API rejections.
var ErrRemoteAPI = errors.New("gitlab api request failed")

// Config holds the settings needed to create a GitLab
// client.
type Config struct {
	// Host is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	Host string
	// AccessToken is a personal, project or CI job
	// token used for authentication.
	AccessToken string
	// HTTPClient overrides the transport. Nil uses the
	// client-go default.
	HTTPClient *http.Client
}

// Project is the subset of GitLab project metadata the
// plugin consumes.
type Project struct {
	// PathWithNamespace is the full project path
	// (e.g. "group/subgroup/app").
	PathWithNamespace string
}

// MergeRequestOptions describes a merge request to open.
type MergeRequestOptions struct {
	SourceBranch       string
	TargetBranch       string
	Title              string
	Description        string
	RemoveSourceBranch bool
}

// MergeRequest is the subset of a created merge request
// the plugin reports.
type MergeRequest struct {
	// WebURL is the merge request page.
	WebURL string
}

// Client reads projects and creates merge requests on
// GitLab.
type Client struct {
	client *gl.Client
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	const errCtx = "creating gitlab client"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}

	opts := []gl.ClientOptionFunc{
		gl.WithBaseURL(host),
		gl.WithoutRetries(),
	}

	if cfg.HTTPClient != nil {
		opts = append(opts, gl.WithHTTPClient(cfg.HTTPClient))
	}

	client, err := gl.NewClient(cfg.AccessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Client{client: client}, nil
}

// ShowProject fetches project metadata. pid is either the
// numeric id or the URL-unescaped full path.
func (c *Client) ShowProject(
	ctx context.Context,
	pid string,
) (*Project, error) {
	const errCtx = "fetching gitlab project"

	prj, resp, err := c.client.Projects.GetProject(
		pid, nil, gl.WithContext(ctx),
	)
	if err != nil {
		logFailure(errCtx, resp)

		return nil, fmt.Errorf(
			"%s %s: %w: %w", errCtx, pid, ErrRemoteAPI, err,
		)
	}

	return &Project{
		PathWithNamespace: prj.PathWithNamespace,
	}, nil
}

// CreateMergeRequest opens a merge request on project pid.
// An already open merge request for the same branches is
// reported as an error.
func (c *Client) CreateMergeRequest(
	ctx context.Context,
	pid string,
	mro MergeRequestOptions,
) (*MergeRequest, error) {
	const errCtx = "creating gitlab merge request"

	opts := gl.CreateMergeRequestOptions{
		Title:              gl.Ptr(mro.Title),
		Description:        gl.Ptr(mro.Description),
		SourceBranch:       gl.Ptr(mro.SourceBranch),
		TargetBranch:       gl.Ptr(mro.TargetBranch),
		RemoveSourceBranch: gl.Ptr(mro.RemoveSourceBranch),
	}

	created, resp, err := c.client.MergeRequests.CreateMergeRequest(
		pid, &opts, gl.WithContext(ctx),
	)
	if err != nil {
		logFailure(errCtx, resp)

		return nil, fmt.Errorf(
			"%s: %w: %w", errCtx, ErrRemoteAPI, err,
		)
	}

	return &MergeRequest{WebURL: created.WebURL}, nil
}

// logFailure records the HTTP status of a failed call
// when a response was received.
func logFailure(op string, resp *gl.Response) {
	if resp == nil || resp.Response == nil {
		return
	}

	slog.Warn(
		"gitlab request failed",
		"op", op,
		"status", resp.StatusCode,
	)
}
