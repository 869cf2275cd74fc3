package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/voidarchive/agentkit/webui"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		workDir  string
		model    string
		maxTurns int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent HTTP API and WebSocket event feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			if workDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				workDir = wd
			}

			srv := webui.NewServer(webui.Config{
				Model:    anthropic.Model(model),
				WorkDir:  workDir,
				MaxTurns: maxTurns,
				Logger:   logger,
			})

			logger.Info("listening", "addr", addr, "workdir", workDir)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&workDir, "workdir", "w", "", "workspace directory for agents (default: cwd)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model to use")
	cmd.Flags().IntVar(&maxTurns, "max-turns", 0, "maximum loop turns per agent (0 = unlimited)")

	return cmd
}
