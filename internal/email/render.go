package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"kortex-blueprint/internal/ai"
)

// Branding controls the static parts of the blueprint email.
type Branding struct {
	BrandName     string
	Wordmark      string
	CTAURL        string
	CTALabel      string
	CopyrightYear int
}

// DefaultBranding returns the Kortex Labs branding.
func DefaultBranding() Branding {
	return Branding{
		BrandName:     "Kortex Labs",
		Wordmark:      "KORTEX",
		CTAURL:        "https://calendly.com/kortexlabsai/discovery-call",
		CTALabel:      "Book a 15-Min Strategy Call",
		CopyrightYear: time.Now().Year(),
	}
}

func (b Branding) withDefaults() Branding {
	def := DefaultBranding()
	if strings.TrimSpace(b.BrandName) == "" {
		b.BrandName = def.BrandName
	}
	if strings.TrimSpace(b.Wordmark) == "" {
		b.Wordmark = def.Wordmark
	}
	if strings.TrimSpace(b.CTAURL) == "" {
		b.CTAURL = def.CTAURL
	}
	if strings.TrimSpace(b.CTALabel) == "" {
		b.CTALabel = def.CTALabel
	}
	if b.CopyrightYear <= 0 {
		b.CopyrightYear = def.CopyrightYear
	}
	return b
}

// Renderer turns a blueprint into the branded HTML email body.
type Renderer struct {
	branding Branding
	tmpl     *template.Template
}

// NewRenderer parses the email template once for reuse across requests.
func NewRenderer(branding Branding) (*Renderer, error) {
	tmpl, err := template.New("blueprint").Parse(blueprintTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse blueprint template: %w", err)
	}
	return &Renderer{branding: branding.withDefaults(), tmpl: tmpl}, nil
}

// Branding returns the branding the renderer was built with.
func (r *Renderer) Branding() Branding {
	return r.branding
}

// Render produces the email HTML. All blueprint values are HTML-escaped.
func (r *Renderer) Render(blueprint ai.Blueprint) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Branding  Branding
		Blueprint ai.Blueprint
	}{r.branding, blueprint}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render blueprint email: %w", err)
	}
	return buf.String(), nil
}

const blueprintTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style> @import url('https://fonts.googleapis.com/css2?family=Montserrat:wght@700&family=Roboto:wght@400&display=swap'); </style>
</head>
<body style="margin: 0; padding: 0; background-color: #0A0A0A; font-family: 'Roboto', sans-serif; color: #E2E8F0;">
    <table width="100%" border="0" cellspacing="0" cellpadding="0">
        <tr><td align="center">
            <table width="600" border="0" cellspacing="0" cellpadding="20" style="max-width: 600px; margin: auto; background-color: #1a1a2e; border-radius: 8px; border: 1px solid #3c2a4d;">
                <tr><td align="center" style="padding: 30px 20px;"><h1 style="margin: 0; color: #e49dfe; font-family: 'Montserrat', sans-serif; font-size: 32px;">{{.Branding.Wordmark}}</h1></td></tr>
                <tr><td style="padding: 20px 40px;">
                    <h2 style="margin: 0 0 20px 0; color: #ffffff; font-family: 'Montserrat', sans-serif; font-size: 24px;">Your Custom AI Blueprint is Here.</h2>
                    <p style="margin: 0 0 24px 0; font-size: 16px; line-height: 1.6;">Thank you for joining the {{.Branding.BrandName}} waitlist. Our AI strategist has analyzed your challenge. As promised, here is the operational blueprint generated for your business.</p>
                    <div style="background-color: rgba(10, 10, 10, 0.5); padding: 25px; border-radius: 8px;">
                        <h2 style="margin: 0 0 20px 0; color: #f2cbff; font-family: 'Montserrat', sans-serif; text-align: center;">{{.Blueprint.Title}}</h2>
{{- range .Blueprint.Steps}}
                        <div style="margin-bottom: 20px; padding-bottom: 20px; border-bottom: 1px solid #3c2a4d;">
                            <h3 style="margin: 0 0 8px 0; color: #e49dfe; font-size: 18px; font-family: 'Montserrat', sans-serif;">Step {{.StepNumber}}: {{.StepTitle}}</h3>
                            <p style="margin: 0 0 12px 0; color: #E2E8F0; font-size: 16px; line-height: 1.6;">{{.Description}}</p>
                            <p style="margin: 0; color: #f2cbff; font-size: 14px; background-color: rgba(37, 8, 60, 0.5); padding: 8px; border-radius: 4px; border-left: 3px solid #e49dfe;"><strong>Suggested Kortex Agent:</strong> {{.KortexAgentSuggestion}}</p>
                        </div>
{{- end}}
                        <div style="margin-top: 20px;">
                            <h3 style="margin: 0 0 8px 0; color: #e49dfe; font-size: 18px; font-family: 'Montserrat', sans-serif;">Summary &amp; Potential Impact</h3>
                            <p style="margin: 0; font-size: 16px; line-height: 1.6;">{{.Blueprint.Summary}}</p>
                        </div>
                    </div>
                </td></tr>
                <tr><td align="center" style="padding: 30px 40px;">
                    <p style="margin: 0 0 20px 0; font-size: 16px; line-height: 1.6;">This blueprint is the starting point. The real power comes when this strategy is integrated into a live operational infrastructure.</p>
                    <a href="{{.Branding.CTAURL}}" target="_blank" style="background-color: #e49dfe; color: #25083c; padding: 15px 25px; text-decoration: none; border-radius: 8px; font-weight: bold; font-family: 'Montserrat', sans-serif; display: inline-block;">{{.Branding.CTALabel}}</a>
                </td></tr>
                <tr><td align="center" style="padding: 20px 40px; font-size: 12px; color: #a08fb0;"><p>&copy; {{.Branding.CopyrightYear}} {{.Branding.BrandName}}, Inc. All rights reserved.</p></td></tr>
            </table>
        </td></tr>
    </table>
</body>
</html>
`
