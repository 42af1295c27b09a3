// Package mirror implements the prepare phase of a release:
// it force-pushes the current commit to a branch of a GitLab
// mirror project through a remote named "gitlab".
//
// The push URL carries the access token as basic-auth
// userinfo. It is handed to git only and never logged.
package mirror
