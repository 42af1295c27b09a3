// Package config resolves the operating parameters of the
// release plugin.
//
// Every field is looked up in an environment snapshot first,
// then in the plugin configuration supplied by the release
// host, then in a built-in default. Resolution is a pure
// function of its inputs: callers snapshot the process
// environment with EnvFromOS (optionally overlaid on a dotenv
// file with LoadEnv) and pass it explicitly.
package config
