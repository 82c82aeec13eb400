package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"kortex-blueprint/internal/ai"
	"kortex-blueprint/internal/config"
	"kortex-blueprint/internal/email"
	"kortex-blueprint/internal/lead"
)

var generateFlags struct {
	submission lead.Submission
	format     string
	out        string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a blueprint for one lead without sending email",
	Long:  "generate calls the configured Gemini model with the given lead details\nand prints the blueprint as JSON or as the rendered HTML email.",
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateFlags.submission.Email, "email", "", "Lead email address (required)")
	f.StringVar(&generateFlags.submission.Company, "company", "", "Company name (required)")
	f.StringVar(&generateFlags.submission.Industry, "industry", "", "Industry (required)")
	f.StringVar(&generateFlags.submission.Challenge, "challenge", "", "Business challenge (required)")
	f.StringVar(&generateFlags.submission.Goal, "goal", "", "Primary goal")
	f.StringVar(&generateFlags.format, "format", "html", "Output format: html or json")
	f.StringVarP(&generateFlags.out, "out", "o", "", "Output path (default stdout)")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generateFlags.format != "html" && generateFlags.format != "json" {
		return fmt.Errorf("--format must be html or json, got %q", generateFlags.format)
	}
	submission := generateFlags.submission.Normalize()
	if err := submission.Validate(); err != nil {
		return err
	}

	cfg := config.Load()
	cfg.ConfigureLogging()

	client, err := ai.NewClient(cfg.Server.AIConfig)
	if err != nil {
		if errors.Is(err, ai.ErrDisabled) {
			return fmt.Errorf("set GEMINI_API_KEY to generate blueprints: %w", err)
		}
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	bp, err := client.Generate(ctx, submission)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if generateFlags.format == "json" {
		body, err := marshalBlueprint(bp)
		if err != nil {
			return err
		}
		return writeOutput(cmd, generateFlags.out, body)
	}

	renderer, err := email.NewRenderer(cfg.Server.Branding)
	if err != nil {
		return err
	}
	html, err := renderer.Render(bp)
	if err != nil {
		return err
	}
	return writeOutput(cmd, generateFlags.out, html)
}
