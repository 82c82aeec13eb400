package ai

import (
	"fmt"
	"strings"

	"kortex-blueprint/internal/lead"
)

// StepTitles are the fixed stages of the Kortex methodology, in order.
var StepTitles = [StepCount]string{"Ingest & Unify", "Analyze & Predict", "Execute & Automate"}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type schema struct {
	Type       string             `json:"type"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Items      *schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema"`
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

func (c *Client) buildPayload(submission lead.Submission) generateContentRequest {
	return generateContentRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: buildPrompt(submission)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      c.temperature,
			ResponseMIMEType: "application/json",
			ResponseSchema:   blueprintSchema(),
		},
	}
}

func blueprintSchema() *schema {
	str := func() *schema { return &schema{Type: "STRING"} }
	return &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"blueprint_title": str(),
			"steps": {
				Type: "ARRAY",
				Items: &schema{
					Type: "OBJECT",
					Properties: map[string]*schema{
						"step_number":             {Type: "NUMBER"},
						"step_title":              str(),
						"description":             str(),
						"kortex_agent_suggestion": str(),
					},
					Required: []string{"step_number", "step_title", "description", "kortex_agent_suggestion"},
				},
			},
			"summary": str(),
		},
		Required: []string{"blueprint_title", "steps", "summary"},
	}
}

func buildPrompt(submission lead.Submission) string {
	builder := &strings.Builder{}
	builder.WriteString("You are a visionary AI strategist for Kortex Labs.\n")
	fmt.Fprintf(builder, "A potential client, %s, from the %s industry, has the following challenge: '%s'.\n",
		submission.Company, submission.Industry, submission.Challenge)
	if submission.Goal != "" {
		fmt.Fprintf(builder, "Their primary goal is: '%s'.\n", submission.Goal)
	}
	builder.WriteString("\nGenerate a 3-step 'AI Blueprint' as JSON matching the provided schema. Follow these instructions precisely:\n")
	builder.WriteString("1. blueprint_title: a compelling title that addresses the client's challenge.\n")
	builder.WriteString("2. steps: an array of exactly three objects, one per step of the Kortex methodology.\n")
	fmt.Fprintf(builder, "   - step_number: 1, 2 and %d respectively.\n", StepCount)
	fmt.Fprintf(builder, "   - step_title: exactly \"%s\", \"%s\" and \"%s\".\n", StepTitles[0], StepTitles[1], StepTitles[2])
	builder.WriteString("   - description: one or two sentences tailored to the client's specific challenge.\n")
	builder.WriteString("   - kortex_agent_suggestion: the type of Kortex AI Agent that fits the step.\n")
	fmt.Fprintf(builder, "3. summary: one or two sentences on the blueprint's potential impact for %s.\n", submission.Company)
	return builder.String()
}
