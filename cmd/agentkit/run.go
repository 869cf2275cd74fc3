package main

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/voidarchive/agentkit"
	"github.com/voidarchive/agentkit/tools"
)

var (
	toolColor   = color.New(color.FgYellow)
	errColor    = color.New(color.FgRed)
	metaColor   = color.New(color.FgCyan)
	resultColor = color.New(color.FgGreen, color.Bold)
)

func newRunCmd() *cobra.Command {
	var (
		model     string
		agentType string
		toolList  []string
		workDir   string
		maxTurns  int
		budget    string
		settings  string
		skillDirs []string
		system    string
	)

	cmd := &cobra.Command{
		Use:   "run [prompt]",
		Short: "Run one agent loop to completion and print the transcript",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")

			types := agentkit.NewTypeRegistry()

			var opts []agentkit.AgentOption
			if agentType != "" {
				typeOpts, err := tools.ForAgentType(types, agentkit.AgentType(agentType), toolList...)
				if err != nil {
					return err
				}
				opts = append(opts, typeOpts...)
			} else {
				opts = append(opts, agentkit.WithOnInit(func(a *agentkit.Agent) {
					tools.RegisterAll(a, types)
				}))
			}

			if model != "" {
				opts = append(opts, agentkit.WithModel(anthropic.Model(model)))
			}
			if workDir != "" {
				opts = append(opts, agentkit.WithWorkDir(workDir))
			}
			if maxTurns > 0 {
				opts = append(opts, agentkit.WithMaxTurns(maxTurns))
			}
			if system != "" {
				opts = append(opts, agentkit.WithSystemPrompt(system))
			}
			if settings != "" {
				opts = append(opts, agentkit.WithSettings(settings))
			}
			if len(skillDirs) > 0 {
				opts = append(opts, agentkit.WithSkillDirs(skillDirs...))
			}
			if budget != "" {
				maxUSD, err := decimal.NewFromString(budget)
				if err != nil {
					return fmt.Errorf("invalid budget %q: %w", budget, err)
				}
				opts = append(opts, agentkit.WithBudget(maxUSD))
			}

			agent := agentkit.NewAgent(opts...)
			stream := agent.Run(cmd.Context(), prompt)

			return printTranscript(stream)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model to use")
	cmd.Flags().StringVarP(&agentType, "type", "t", "", "agent type preset (explore, plan, code, custom)")
	cmd.Flags().StringSliceVar(&toolList, "tools", nil, "tool list for the custom agent type")
	cmd.Flags().StringVarP(&workDir, "workdir", "w", "", "workspace directory; file tools are confined to it")
	cmd.Flags().IntVar(&maxTurns, "max-turns", 0, "maximum loop turns (0 = unlimited)")
	cmd.Flags().StringVar(&budget, "budget", "", "maximum spend in USD")
	cmd.Flags().StringVar(&settings, "settings", "", "YAML settings file")
	cmd.Flags().StringSliceVar(&skillDirs, "skills", nil, "directories of markdown skill files")
	cmd.Flags().StringVar(&system, "system", "", "system prompt")

	return cmd
}

func printTranscript(stream *agentkit.AgentStream) error {
	for stream.Next() {
		switch e := stream.Current().(type) {
		case *agentkit.SystemEvent:
			metaColor.Printf("session %s (%s)\n\n", e.SessionID, e.Model)

		case *agentkit.StreamEvent:
			fmt.Print(e.Delta)

		case *agentkit.ToolUseEvent:
			toolColor.Printf("\n[%s] %s\n", e.ToolName, compactJSON(e.Input))

		case *agentkit.ToolResultEvent:
			if e.IsError {
				errColor.Printf("  ! %s\n", firstLine(e.Output))
			} else {
				metaColor.Printf("  > %s\n", firstLine(e.Output))
			}

		case *agentkit.ResultEvent:
			fmt.Println()
			if err := e.Err(); err != nil {
				errColor.Fprintln(color.Error, err.Error())
				return err
			}
			resultColor.Printf("\ndone in %d turns, $%s (%d in / %d out tokens)\n",
				e.NumTurns, e.TotalCost.StringFixed(4),
				e.Usage.InputTokens, e.Usage.OutputTokens)
		}
	}
	return nil
}

func compactJSON(raw []byte) string {
	s := string(raw)
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}
	if len(s) > 160 {
		s = s[:160] + "..."
	}
	return s
}
