package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dskvich/doc-reviewer/pkg/logger"
)

type cli struct {
	out     io.Writer
	errOut  io.Writer
	envFile string
	flags   struct {
		backendURL  string
		downloadDir string
		logLevel    string
	}
	session *session
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Browse filings, run review pipelines and manage review prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&c.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	pf.StringVar(&c.flags.backendURL, "backend-url", "", "gateway or function app origin (overrides BACKEND_URL)")
	pf.StringVar(&c.flags.downloadDir, "download-dir", "", "directory for downloaded blobs (overrides DOWNLOAD_DIR)")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	root.AddCommand(
		newBlobsCmd(c),
		newProcessCmd(c),
		newPromptsCmd(c),
		newWhoAmICmd(c),
	)

	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.envFile)
	if err != nil {
		return err
	}
	if c.flags.backendURL != "" {
		cfg.BackendURL = c.flags.backendURL
	}
	if c.flags.downloadDir != "" {
		cfg.DownloadDir = c.flags.downloadDir
	}
	if c.flags.logLevel != "" {
		cfg.LogLevel = c.flags.logLevel
	}

	opts := *logger.DefaultOptions
	opts.Level = logger.ParseLevel(cfg.LogLevel)
	opts.NoColor = true
	slog.SetDefault(slog.New(logger.NewHandler(c.errOut, &opts)))

	c.session, err = newSession(cfg, newConsoleNotifier(c.out, c.errOut))
	if err != nil {
		return err
	}

	slog.DebugContext(cmd.Context(), "session ready", "backend", cfg.BackendURL, "command", cmd.CommandPath())
	return nil
}
