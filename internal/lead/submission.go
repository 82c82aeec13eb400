package lead

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission is the lead-capture form payload.
type Submission struct {
	Email     string `json:"email" yaml:"email" binding:"required"`
	Company   string `json:"company" yaml:"company" binding:"required"`
	Industry  string `json:"industry" yaml:"industry" binding:"required"`
	Challenge string `json:"challenge" yaml:"challenge" binding:"required"`
	Goal      string `json:"goal,omitempty" yaml:"goal,omitempty"`
}

// ErrMissingFields is returned when a required field is empty.
var ErrMissingFields = errors.New("missing required fields")

// Same tag gin uses, so the CLI and the HTTP handler agree on what is required.
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// Validate performs the presence check on required fields.
func (s Submission) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(MissingFields(verrs), ", "))
	}
	return err
}

// MissingFields lists the JSON names of the fields that failed validation.
func MissingFields(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, strings.ToLower(fe.Field()))
	}
	return out
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	return Submission{
		Email:     strings.TrimSpace(s.Email),
		Company:   strings.TrimSpace(s.Company),
		Industry:  strings.TrimSpace(s.Industry),
		Challenge: strings.TrimSpace(s.Challenge),
		Goal:      strings.TrimSpace(s.Goal),
	}
}

// CustomerSubject is the subject line of the email carrying the blueprint.
func (s Submission) CustomerSubject() string {
	return fmt.Sprintf("Your Custom Kortex AI Blueprint for %s", s.Company)
}

// NotificationSubject is the subject line of the internal lead notification.
func (s Submission) NotificationSubject() string {
	return fmt.Sprintf("New Blueprint Lead: %s", s.Company)
}

// NotificationText summarizes the lead for the internal inbox.
func (s Submission) NotificationText() string {
	builder := &strings.Builder{}
	builder.WriteString("A new blueprint was generated for:\n\n")
	fmt.Fprintf(builder, "Company: %s\n", s.Company)
	fmt.Fprintf(builder, "Industry: %s\n", s.Industry)
	fmt.Fprintf(builder, "Email: %s\n", s.Email)
	if s.Goal != "" {
		fmt.Fprintf(builder, "Goal: %s\n", s.Goal)
	}
	fmt.Fprintf(builder, "Challenge: %s", s.Challenge)
	return builder.String()
}
