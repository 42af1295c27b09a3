// Command semrel_gitlab runs the GitLab mirror release
// hooks. A release host calls "semrel_gitlab prepare" during
// release preparation and "semrel_gitlab publish" once the
// release notes are known.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/byte4ever/semrel_gitlab/semrel/config"
	"github.com/byte4ever/semrel_gitlab/semrel/plugin"
)

func main() {
	if err := run(
		context.Background(),
		os.Args,
		os.Stdin,
		os.Stderr,
		config.EnvFromOS(),
	); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// hook is the signature shared by plugin.Prepare and
// plugin.Publish.
type hook func(
	ctx context.Context,
	pc config.PluginConfig,
	rel config.Release,
	opts plugin.Options,
) error

// run executes the command line args. stdin feeds the
// --stdin payload, logs go to stderr and env is the
// process environment snapshot.
func run(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stderr io.Writer,
	env config.Env,
) error {
	in := invocationIO{stdin: stdin, stderr: stderr, env: env}


	cmd := &cli.Command{
		Name:      "semrel_gitlab",
		Usage:     "Mirror a release to GitLab and open its merge request",
		Writer:    stderr,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML plugin configuration file",
			},
			&cli.BoolFlag{
				Name:  "stdin",
				Usage: "Read a JSON invocation payload from stdin",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file read beneath the process environment",
			},
			&cli.StringFlag{
				Name:  "release-version",
				Usage: "Version being released",
			},
			&cli.StringFlag{
				Name:  "notes",
				Usage: "Release notes",
			},
			&cli.StringFlag{
				Name:  "notes-file",
				Usage: "File holding the release notes",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Git working tree (defaults to the current directory)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"v"},
				Usage:   "debug output",
				Sources: cli.EnvVars("SEMREL_GITLAB_DEBUG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "prepare",
				Usage:  "Force-push HEAD to the GitLab mirror branch",
				Action: in.action(plugin.Prepare),
			},
			{
				Name:   "publish",
				Usage:  "Open the release merge request",
				Action: in.action(plugin.Publish),
			},
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		return fmt.Errorf("running semrel_gitlab: %w", err)
	}

	return nil
}

// invocationIO is the process state a hook reads.
type invocationIO struct {
	stdin  io.Reader
	stderr io.Writer
	env    config.Env
}

func (in invocationIO) action(h hook) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		const errCtx = "running hook"

		logger := newLogger(in.stderr, cmd.Bool("debug"))

		pc, rel, err := loadInvocation(cmd, in.stdin)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		env, err := config.LoadEnv(
			cmd.String("env-file"), in.env,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := h(ctx, pc, rel, plugin.Options{
			Env:    env,
			Logger: logger,
			Dir:    cmd.String("dir"),
		}); err != nil {
			return fmt.Errorf("%s %s: %w", errCtx, cmd.Name, err)
		}

		return nil
	}
}

// loadInvocation assembles the plugin configuration and
// release from, in increasing priority, the config file,
// the stdin payload and the release flags. --notes-file
// wins over --notes.
func loadInvocation(
	cmd *cli.Command,
	stdin io.Reader,
) (config.PluginConfig, config.Release, error) {
	const errCtx = "loading invocation"

	var (
		pc  config.PluginConfig
		rel config.Release
	)

	if path := cmd.String("config"); path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			return pc, rel, fmt.Errorf("%s: %w", errCtx, err)
		}

		pc = fileCfg
	}

	if cmd.Bool("stdin") {
		inv, err := plugin.DecodeInvocation(stdin)
		if err != nil {
			return pc, rel, fmt.Errorf("%s: %w", errCtx, err)
		}

		pc = overlay(pc, inv.PluginConfig)
		rel = inv.NextRelease
	}

	if v := cmd.String("release-version"); v != "" {
		rel.Version = v
	}

	if n := cmd.String("notes"); n != "" {
		rel.Notes = n
	}

	if path := cmd.String("notes-file"); path != "" {
		//nolint:gosec // path from CLI flag
		data, err := os.ReadFile(path)
		if err != nil {
			return pc, rel, fmt.Errorf(
				"%s: notes file: %w", errCtx, err,
			)
		}

		rel.Notes = string(data)
	}

	if rel.Version == "" {
		return pc, rel, fmt.Errorf(
			"%s: release version must be set", errCtx,
		)
	}

	return pc, rel, nil
}

// overlay returns base with every non-empty field of top
// applied on top of it.
func overlay(base, top config.PluginConfig) config.PluginConfig {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&base.GitlabURL, top.GitlabURL)
	set(&base.GitlabToken, top.GitlabToken)
	set(&base.SourceBranch, top.SourceBranch)
	set(&base.TargetBranch, top.TargetBranch)
	set(&base.TitleTemplate, top.TitleTemplate)

	if top.ProjectID != "" {
		base.ProjectID = top.ProjectID
	}

	if top.SSLVerify != nil {
		base.SSLVerify = top.SSLVerify
	}

	return base
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	lvl := slog.LevelInfo
	if debug {
		lvl = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(
		w, &slog.HandlerOptions{Level: lvl},
	))
}
