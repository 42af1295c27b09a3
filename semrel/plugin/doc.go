// Package plugin exposes the two release hooks, Prepare and
// Publish. Each hook resolves its configuration from scratch,
// builds its collaborators and runs one phase; nothing is
// carried from one hook to the other. The release host is
// expected to call Prepare before Publish and never to run
// two releases at once in the same working tree.
//
// DecodeInvocation reads the JSON payload a host shim pipes
// to the semrel_gitlab command.
package plugin
