package lead

import (
	"errors"
	"strings"
	"testing"
)

func validSubmission() Submission {
	return Submission{
		Email:     "ops@acme.test",
		Company:   "Acme",
		Industry:  "Logistics",
		Challenge: "Too many manual handoffs",
	}
}

func TestSubmissionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Submission)
		missing string
	}{
		{"complete", func(*Submission) {}, ""},
		{"no email", func(s *Submission) { s.Email = "" }, "email"},
		{"no company", func(s *Submission) { s.Company = "" }, "company"},
		{"no industry", func(s *Submission) { s.Industry = "" }, "industry"},
		{"no challenge", func(s *Submission) { s.Challenge = "" }, "challenge"},
		{"goal is optional", func(s *Submission) { s.Goal = "" }, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(&sub)
			err := sub.Validate()
			if tc.missing == "" {
				if err != nil {
					t.Fatalf("expected no error got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields got %v", err)
			}
			if !strings.Contains(err.Error(), tc.missing) {
				t.Fatalf("expected %q in %q", tc.missing, err.Error())
			}
		})
	}
}

func TestSubmissionValidateListsEveryMissingField(t *testing.T) {
	err := Submission{Company: "Acme"}.Validate()
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields got %v", err)
	}
	for _, field := range []string{"email", "industry", "challenge"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected %q in %q", field, err.Error())
		}
	}
}

func TestSubmissionNormalize(t *testing.T) {
	sub := Submission{Email: " a@b.test ", Company: "\tAcme\n", Industry: " x ", Challenge: " y ", Goal: "  "}
	got := sub.Normalize()
	want := Submission{Email: "a@b.test", Company: "Acme", Industry: "x", Challenge: "y"}
	if got != want {
		t.Fatalf("expected %+v got %+v", want, got)
	}
}

func TestNotificationText(t *testing.T) {
	sub := validSubmission()
	text := sub.NotificationText()
	want := "A new blueprint was generated for:\n\nCompany: Acme\nIndustry: Logistics\nEmail: ops@acme.test\nChallenge: Too many manual handoffs"
	if text != want {
		t.Fatalf("unexpected notification text:\n%s", text)
	}

	sub.Goal = "Halve lead times"
	if !strings.Contains(sub.NotificationText(), "Goal: Halve lead times\n") {
		t.Fatalf("expected goal line in %q", sub.NotificationText())
	}
}

func TestSubjects(t *testing.T) {
	sub := validSubmission()
	if got := sub.CustomerSubject(); got != "Your Custom Kortex AI Blueprint for Acme" {
		t.Fatalf("customer subject %q", got)
	}
	if got := sub.NotificationSubject(); got != "New Blueprint Lead: Acme" {
		t.Fatalf("notification subject %q", got)
	}
}
