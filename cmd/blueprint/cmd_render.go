package main

import (
	"github.com/spf13/cobra"

	"kortex-blueprint/internal/email"
)

var renderFlags struct {
	file   string
	out    string
	ctaURL string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a blueprint JSON or YAML file to the HTML email",
	RunE:  runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.file, "file", "f", "", "Blueprint file, .json or .yaml (required)")
	f.StringVarP(&renderFlags.out, "out", "o", "", "Output path (default stdout)")
	f.StringVar(&renderFlags.ctaURL, "cta-url", "", "Override the call-to-action link")

	_ = renderCmd.MarkFlagRequired("file")
}

func runRender(cmd *cobra.Command, _ []string) error {
	bp, err := loadBlueprint(renderFlags.file)
	if err != nil {
		return err
	}

	branding := email.DefaultBranding()
	if renderFlags.ctaURL != "" {
		branding.CTAURL = renderFlags.ctaURL
	}
	renderer, err := email.NewRenderer(branding)
	if err != nil {
		return err
	}
	html, err := renderer.Render(bp)
	if err != nil {
		return err
	}
	return writeOutput(cmd, renderFlags.out, html)
}
