package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/terra-clan/trainer-backend/internal/models"
	"github.com/terra-clan/trainer-backend/pkg/client"
)

func apiClient(cmd *cli.Command) *client.Client {
	return client.NewClient(cmd.String("server"))
}

// readTask loads a task from path, or from stdin when path is "-"
func readTask(path string) (*models.Task, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read task: %w", err)
	}

	var task models.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to parse task: %w", err)
	}
	if err := task.ValidateInput(); err != nil {
		return nil, err
	}
	return &task, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCheck(w io.Writer, result *models.CheckResult) {
	verdict := color.New(color.FgGreen, color.Bold).Sprint("PASSED")
	if !result.Passed {
		verdict = color.New(color.FgRed, color.Bold).Sprint("FAILED")
	}
	fmt.Fprintf(w, "%s  score %.1f/10\n", verdict, result.Score)
	fmt.Fprintln(w, result.Summary)

	if result.Feedback != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, result.Feedback)
	}
	printList(w, "Fixes", result.Fixes)
	printList(w, "Edge cases", result.EdgeCases)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	color.New(color.Bold).Fprintln(w, title+":")
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
