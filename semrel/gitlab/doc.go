// Package gitlab is the thin GitLab REST client used by the
// release plugin. It reads project metadata and opens merge
// requests through gitlab.com/gitlab-org/api/client-go, with
// client-side retries disabled so each call is issued at most
// once. Every failure is wrapped in ErrRemoteAPI.
package gitlab
