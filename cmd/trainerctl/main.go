package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "trainerctl",
		Usage: "command line client for the trainer API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:3000",
				Usage:   "trainer API base URL",
				Sources: cli.EnvVars("TRAINER_URL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate a new task and print it as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "topic", Aliases: []string{"t"}, Usage: "topic id or free-form topic"},
					&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "JavaScript, TypeScript or Python"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					task, err := apiClient(cmd).GenerateTask(ctx, cmd.String("topic"), cmd.String("language"))
					if err != nil {
						return err
					}
					return printJSON(out, task)
				},
			},
			{
				Name:      "check",
				Usage:     "review a solution file against a task",
				ArgsUsage: "<task.json> <solution-file>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return fmt.Errorf("expected a task file and a solution file")
					}
					task, err := readTask(cmd.Args().Get(0))
					if err != nil {
						return err
					}
					code, err := os.ReadFile(cmd.Args().Get(1))
					if err != nil {
						return fmt.Errorf("failed to read solution: %w", err)
					}

					result, err := apiClient(cmd).CheckAnswer(ctx, task, string(code))
					if err != nil {
						return err
					}
					printCheck(out, result)
					return nil
				},
			},
			{
				Name:      "solution",
				Usage:     "print a reference solution for a task",
				ArgsUsage: "<task.json>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("expected a task file")
					}
					task, err := readTask(cmd.Args().First())
					if err != nil {
						return err
					}

					result, err := apiClient(cmd).GetSolution(ctx, task)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, result.Code)
					if result.Explanation != "" {
						fmt.Fprintln(out)
						fmt.Fprintln(out, result.Explanation)
					}
					return nil
				},
			},
			{
				Name:  "topics",
				Usage: "list the topic catalog",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					topics, err := apiClient(cmd).ListTopics(ctx)
					if err != nil {
						return err
					}
					bold := color.New(color.Bold)
					for _, topic := range topics {
						bold.Fprintf(out, "%-12s", topic.ID)
						fmt.Fprintf(out, " %s\n", topic.Name)
					}
					return nil
				},
			},
		},
	}
}
