package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/byte4ever/semrel_gitlab/semrel/stamper"
)

// Environment variable names, each overriding the
// matching PluginConfig field.
const (
	EnvURL          = "GITLAB_URL"
	EnvToken        = "GITLAB_TOKEN"
	EnvProjectID    = "GITLAB_PROJECT_ID"
	EnvSourceBranch = "GITLAB_SOURCE_BRANCH"
	EnvTargetBranch = "GITLAB_TARGET_BRANCH"
	EnvSSLVerify    = "GITLAB_SSL_VERIFY"
)

// Built-in defaults.
const (
	DefaultURL                  = "https://gitlab.com"
	DefaultSourceBranchTemplate = "release/v{version}"
	DefaultTitleTemplate        = "Release v{version}"
)

// ErrConfiguration reports a missing or invalid setting.
// It is always returned before any network or git call.
var ErrConfiguration = errors.New("invalid gitlab configuration")

// PluginConfig is the static configuration the release
// host passes to the plugin.
type PluginConfig struct {
	// GitlabURL is the base URL of the GitLab instance.
	GitlabURL string `json:"gitlabUrl" yaml:"gitlabUrl"`
	// GitlabToken authenticates API calls and the push.
	GitlabToken string `json:"gitlabToken" yaml:"gitlabToken"`
	// ProjectID is the numeric id or full path of the
	// mirror project.
	ProjectID ProjectID `json:"projectId" yaml:"projectId"`
	// SourceBranch is the mirror branch to push to and
	// merge from. Like GITLAB_SOURCE_BRANCH, it is
	// expanded as a template: every {version} is
	// replaced by the release version, so a branch name
	// cannot contain a literal "{version}".
	SourceBranch string `json:"sourceBranch" yaml:"sourceBranch"`
	// TargetBranch is the branch to merge into.
	TargetBranch string `json:"targetBranch" yaml:"targetBranch"`
	// SSLVerify keeps TLS certificate verification on
	// for the push. Nil means off.
	SSLVerify *bool `json:"sslVerify,omitempty" yaml:"sslVerify,omitempty"`
	// TitleTemplate is the merge request title. May
	// contain {version}.
	TitleTemplate string `json:"titleTemplate,omitempty" yaml:"titleTemplate,omitempty"`
}

// Release is the release metadata supplied by the host.
type Release struct {
	// Version is the semantic version being released.
	Version string `json:"version"`
	// Notes are the generated release notes. May be
	// empty.
	Notes string `json:"notes"`
}

// Resolved is the configuration of a single prepare or
// publish invocation.
type Resolved struct {
	APIBaseURL string
	// APIToken is secret.
	APIToken     string
	ProjectID    string
	SourceBranch string
	// TargetBranch is only guaranteed non-empty when
	// built by ResolvePublish.
	TargetBranch string
	Title        string
	SSLVerify    bool
}

// Resolve builds the configuration shared by the prepare
// and publish phases.
func Resolve(
	pc PluginConfig,
	env Env,
	rel Release,
) (*Resolved, error) {
	const errCtx = "resolving configuration"

	vars := stamper.ReleaseVars(rel.Version)

	res := &Resolved{
		APIBaseURL: firstNonEmpty(
			env[EnvURL], pc.GitlabURL, DefaultURL,
		),
		APIToken: firstNonEmpty(
			env[EnvToken], pc.GitlabToken,
		),
		ProjectID: firstNonEmpty(
			env[EnvProjectID], string(pc.ProjectID),
		),
		SourceBranch: stamper.Stamp(
			firstNonEmpty(
				env[EnvSourceBranch],
				pc.SourceBranch,
				DefaultSourceBranchTemplate,
			),
			vars,
		),
		TargetBranch: firstNonEmpty(
			env[EnvTargetBranch], pc.TargetBranch,
		),
		Title: stamper.Stamp(
			firstNonEmpty(
				pc.TitleTemplate, DefaultTitleTemplate,
			),
			vars,
		),
	}

	if res.APIToken == "" ||
		res.APIBaseURL == "" ||
		res.ProjectID == "" {
		return nil, fmt.Errorf(
			"%s: %w: token, url or project id is missing",
			errCtx, ErrConfiguration,
		)
	}

	if err := checkBaseURL(res.APIBaseURL); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	sslVerify, err := resolveSSLVerify(env, pc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	res.SSLVerify = sslVerify

	return res, nil
}

// ResolvePublish resolves the configuration and also
// requires a target branch.
func ResolvePublish(
	pc PluginConfig,
	env Env,
	rel Release,
) (*Resolved, error) {
	const errCtx = "resolving publish configuration"

	res, err := Resolve(pc, env, rel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if res.TargetBranch == "" {
		return nil, fmt.Errorf(
			"%s: %w: target branch is missing",
			errCtx, ErrConfiguration,
		)
	}

	return res, nil
}

// checkBaseURL rejects URLs the push URL cannot be
// derived from.
func checkBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf(
			"%w: gitlab url: %w", ErrConfiguration, err,
		)
	}

	if (u.Scheme != "https" && u.Scheme != "http") ||
		u.Host == "" {
		return fmt.Errorf(
			"%w: gitlab url %q must be an absolute http(s) url",
			ErrConfiguration, raw,
		)
	}

	return nil
}

func resolveSSLVerify(env Env, pc PluginConfig) (bool, error) {
	if raw := env[EnvSSLVerify]; raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf(
				"%w: %s: %w", ErrConfiguration, EnvSSLVerify, err,
			)
		}

		return v, nil
	}

	if pc.SSLVerify != nil {
		return *pc.SSLVerify, nil
	}

	return false, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}
