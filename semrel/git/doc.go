// Package git wraps the local git client used during the
// prepare phase of a release: it edits repository config,
// lists and adds remotes, and force-pushes refs.
//
// Every failure is reported wrapped in ErrPush so callers
// can tell version-control failures apart from API and
// configuration failures.
package git
