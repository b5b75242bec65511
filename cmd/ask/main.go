// Command ask sends questions to the answering service from the terminal and
// prints each normalized response as one JSON line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/webvibe/supportdesk/internal/config"
	"github.com/webvibe/supportdesk/internal/infrastructure/question"
	"github.com/webvibe/supportdesk/pkg/logger"
)

var (
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var errUsage = errors.New("either -examples or both -message and -category are required")

func main() {
	_ = godotenv.Load()
	logger.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, failedStyle.Render("error:"), err)
		}
		os.Exit(2)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	fs.SetOutput(stderr)

	message := fs.String("message", "", "question text")
	category := fs.String("category", "", "question category")
	examples := fs.Bool("examples", false, "send the built-in example questions concurrently")
	baseURL := fs.String("base-url", config.GetQuestionBaseURL(), "answering service base URL")
	timeout := fs.Duration("timeout", config.GetQuestionTimeout(), "per-question timeout, 0 for none")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var reqs []question.Request
	switch {
	case *examples:
		reqs = question.ExampleQuestions
	case *message != "" && *category != "":
		reqs = []question.Request{{Message: *message, Category: *category}}
	default:
		return errUsage
	}

	svc := question.NewService(*baseURL, question.WithTimeout(*timeout))

	start := time.Now()
	responses := question.AskAll(ctx, svc, reqs)

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)

	failed := 0
	for _, resp := range responses {
		if !resp.Success {
			failed++
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}

	fmt.Fprintln(stderr, summary(len(responses), failed, time.Since(start)))
	return nil
}

func summary(total, failed int, elapsed time.Duration) string {
	answered := okStyle.Render(fmt.Sprintf("%d answered", total-failed))
	if failed > 0 {
		answered += ", " + failedStyle.Render(fmt.Sprintf("%d failed", failed))
	}
	return answered + mutedStyle.Render(fmt.Sprintf(" in %s", elapsed.Round(time.Millisecond)))
}
