package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Env is a snapshot of environment variables.
type Env map[string]string

// EnvFromOS snapshots the process environment.
func EnvFromOS() Env {
	return envFromList(os.Environ())
}

// LoadEnv reads the dotenv file at path and overlays over
// on top of it, so values in over win. An empty path
// returns a copy of over.
func LoadEnv(path string, over Env) (Env, error) {
	const errCtx = "loading env file"

	env := make(Env, len(over))

	if path != "" {
		fileEnv, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, path, err,
			)
		}

		for k, v := range fileEnv {
			env[k] = v
		}
	}

	for k, v := range over {
		env[k] = v
	}

	return env, nil
}

func envFromList(kvs []string) Env {
	env := make(Env, len(kvs))

	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		env[k] = v
	}

	return env
}
