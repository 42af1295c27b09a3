package mirror_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/semrel_gitlab/semrel/config"
	"github.com/byte4ever/semrel_gitlab/semrel/git"
	"github.com/byte4ever/semrel_gitlab/semrel/gitlab"
	"github.com/byte4ever/semrel_gitlab/semrel/mirror"
)

type fakeProjects struct {
	path  string
	err   error
	calls *[]string
}

func (f *fakeProjects) ShowProject(
	_ context.Context,
	pid string,
) (*gitlab.Project, error) {
	*f.calls = append(*f.calls, "show "+pid)

	if f.err != nil {
		return nil, f.err
	}

	return &gitlab.Project{PathWithNamespace: f.path}, nil
}

type fakeVCS struct {
	calls     *[]string
	remoteURL string
	pushErr   error
}

func (f *fakeVCS) SetConfig(
	_ context.Context,
	key string,
	value string,
) error {
	*f.calls = append(*f.calls, "config "+key+"="+value)

	return nil
}

func (f *fakeVCS) EnsureRemote(
	_ context.Context,
	name string,
	url string,
) (bool, error) {
	*f.calls = append(*f.calls, "remote "+name)
	f.remoteURL = url

	return true, nil
}

func (f *fakeVCS) ForcePush(
	_ context.Context,
	remote string,
	refspec string,
) error {
	*f.calls = append(*f.calls, "push "+remote+" "+refspec)

	return f.pushErr
}

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(
		buf, &slog.HandlerOptions{Level: slog.LevelDebug},
	))
}

func resolved(token string) *config.Resolved {
	return &config.Resolved{
		APIBaseURL:   "https://gitlab.com",
		APIToken:     token,
		ProjectID:    "42",
		SourceBranch: "release/v2.0.0",
	}
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	var (
		calls []string
		logs  bytes.Buffer
	)

	vcs := &fakeVCS{calls: &calls}
	pub := &mirror.Publisher{
		Projects: &fakeProjects{path: "group/app", calls: &calls},
		VCS:      vcs,
		Logger:   newLogger(&logs),
	}

	err := pub.Publish(context.Background(), resolved("t"))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"show 42",
		"config http.sslVerify=false",
		"remote gitlab",
		"push gitlab HEAD:release/v2.0.0",
	}, calls)
	assert.Equal(
		t,
		"https://gitlab-ci-token:t@gitlab.com/group/app.git",
		vcs.remoteURL,
	)
	assert.Contains(t, logs.String(), "branch=release/v2.0.0")
}

func TestPublisher_Publish_never_logs_token(t *testing.T) {
	t.Parallel()

	const token = "glpat-s3cr3t-t0ken"

	var (
		calls []string
		logs  bytes.Buffer
	)

	pub := &mirror.Publisher{
		Projects: &fakeProjects{path: "group/app", calls: &calls},
		VCS:      &fakeVCS{calls: &calls},
		Logger:   newLogger(&logs),
	}

	err := pub.Publish(context.Background(), resolved(token))

	require.NoError(t, err)
	assert.NotEmpty(t, logs.String())
	assert.NotContains(t, logs.String(), token)
}

func TestPublisher_Publish_ssl_verify_kept(t *testing.T) {
	t.Parallel()

	var (
		calls []string
		logs  bytes.Buffer
	)

	cfg := resolved("t")
	cfg.SSLVerify = true

	pub := &mirror.Publisher{
		Projects: &fakeProjects{path: "group/app", calls: &calls},
		VCS:      &fakeVCS{calls: &calls},
		Logger:   newLogger(&logs),
	}

	err := pub.Publish(context.Background(), cfg)

	require.NoError(t, err)
	assert.NotContains(t, calls, "config http.sslVerify=false")
}

func TestPublisher_Publish_project_error(t *testing.T) {
	t.Parallel()

	var (
		calls []string
		logs  bytes.Buffer
	)

	apiErr := fmt.Errorf("show: %w", gitlab.ErrRemoteAPI)

	pub := &mirror.Publisher{
		Projects: &fakeProjects{err: apiErr, calls: &calls},
		VCS:      &fakeVCS{calls: &calls},
		Logger:   newLogger(&logs),
	}

	err := pub.Publish(context.Background(), resolved("t"))

	require.ErrorIs(t, err, gitlab.ErrRemoteAPI)
	assert.Equal(t, []string{"show 42"}, calls)
}

func TestPublisher_Publish_push_error(t *testing.T) {
	t.Parallel()

	var (
		calls []string
		logs  bytes.Buffer
	)

	pushErr := fmt.Errorf("push: %w", git.ErrPush)

	pub := &mirror.Publisher{
		Projects: &fakeProjects{path: "group/app", calls: &calls},
		VCS:      &fakeVCS{calls: &calls, pushErr: pushErr},
		Logger:   newLogger(&logs),
	}

	err := pub.Publish(context.Background(), resolved("t"))

	require.ErrorIs(t, err, git.ErrPush)
	assert.False(t, errors.Is(err, gitlab.ErrRemoteAPI))
	assert.NotContains(t, logs.String(), "force-pushed")
}

func TestPushURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		base  string
		path  string
		token string
		want  string
	}{
		{
			name:  "gitlab.com",
			base:  "https://gitlab.com",
			path:  "group/app",
			token: "t",
			want:  "https://gitlab-ci-token:t@gitlab.com/group/app.git",
		},
		{
			name:  "trailing slash",
			base:  "https://gitlab.example.com/",
			path:  "group/sub/app",
			token: "t",
			want: "https://gitlab-ci-token:t@gitlab.example.com/" +
				"group/sub/app.git",
		},
		{
			name:  "sub-path instance with port",
			base:  "http://10.0.0.5:8080/gitlab",
			path:  "group/app",
			token: "t",
			want: "http://gitlab-ci-token:t@10.0.0.5:8080/" +
				"gitlab/group/app.git",
		},
		{
			name:  "token with reserved characters",
			base:  "https://gitlab.com",
			path:  "group/app",
			token: "a@b:c/d",
			want: "https://gitlab-ci-token:a%40b%3Ac%2Fd@" +
				"gitlab.com/group/app.git",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := mirror.PushURL(tt.base, tt.path, tt.token)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPushURL_invalid_base(t *testing.T) {
	t.Parallel()

	_, err := mirror.PushURL("https://%zz", "group/app", "t")

	assert.ErrorIs(t, err, config.ErrConfiguration)
}
