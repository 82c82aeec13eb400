package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"kortex-blueprint/internal/ai"
	"kortex-blueprint/internal/email"
	"kortex-blueprint/internal/lead"
	"kortex-blueprint/internal/mail"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeGenerator struct {
	blueprint ai.Blueprint
	err       error
	calls     []lead.Submission
}

func (f *fakeGenerator) Enabled() bool { return true }

func (f *fakeGenerator) Generate(ctx context.Context, submission lead.Submission) (ai.Blueprint, error) {
	f.calls = append(f.calls, submission)
	if f.err != nil {
		return ai.Blueprint{}, f.err
	}
	return f.blueprint, nil
}

type recordingSender struct {
	sent   []mail.Message
	failOn int
}

func (r *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	r.sent = append(r.sent, msg)
	if r.failOn == len(r.sent) {
		return errors.New("provider rejected message")
	}
	return nil
}

func sampleBlueprint() ai.Blueprint {
	return ai.Blueprint{
		Title: "Acme Flow Blueprint",
		Steps: []ai.Step{
			{StepNumber: 1, StepTitle: "Ingest and Unify", Description: "Connect the WMS.", KortexAgentSuggestion: "Data Agent"},
			{StepNumber: 2, StepTitle: "Analyze and Predict", Description: "Forecast demand.", KortexAgentSuggestion: "Forecast Agent"},
			{StepNumber: 3, StepTitle: "Execute and Automate", Description: "Auto-route orders.", KortexAgentSuggestion: "Ops Agent"},
		},
		Summary: "Fewer handoffs for Acme.",
	}
}

const validBody = `{"email":"ops@acme.test","company":"Acme","industry":"Logistics","challenge":"Manual handoffs"}`

type harness struct {
	router    *gin.Engine
	generator *fakeGenerator
	sender    *recordingSender
}

func newHarness(t *testing.T, notify string) *harness {
	t.Helper()
	h := &harness{
		generator: &fakeGenerator{blueprint: sampleBlueprint()},
		sender:    &recordingSender{},
	}
	server, err := NewServerWith(Config{
		NotificationEmail: notify,
		Branding:          email.Branding{CopyrightYear: 2025},
	}, h.generator, h.sender)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	h.router, err = server.Router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestNonPostIsRejected(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			h := newHarness(t, "info@kortexlabs.test")
			rec := h.do(method, BlueprintPath, validBody)
			if rec.Code != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405 got %d", rec.Code)
			}
			if allow := rec.Header().Get("Allow"); allow != "POST" {
				t.Fatalf("expected Allow: POST got %q", allow)
			}
			if msg := decode(t, rec)["message"]; msg != "Method Not Allowed" {
				t.Fatalf("unexpected message %v", msg)
			}
			if len(h.generator.calls) != 0 || len(h.sender.sent) != 0 {
				t.Fatalf("no outbound calls expected")
			}
		})
	}
}

func TestMissingFieldsAreRejected(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"no email", `{"company":"Acme","industry":"Logistics","challenge":"x"}`, msgMissingFields},
		{"no company", `{"email":"a@b.test","industry":"Logistics","challenge":"x"}`, msgMissingFields},
		{"no industry", `{"email":"a@b.test","company":"Acme","challenge":"x"}`, msgMissingFields},
		{"no challenge", `{"email":"a@b.test","company":"Acme","industry":"Logistics"}`, msgMissingFields},
		{"blank challenge", `{"email":"a@b.test","company":"Acme","industry":"Logistics","challenge":"   "}`, msgMissingFields},
		{"empty object", `{}`, msgMissingFields},
		{"empty body", ``, msgMissingFields},
		{"not json", `email=a@b.test`, msgInvalidBody},
		{"wrong type", `{"email":5,"company":"Acme","industry":"Logistics","challenge":"x"}`, msgInvalidBody},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, "info@kortexlabs.test")
			rec := h.do(http.MethodPost, BlueprintPath, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rec.Code)
			}
			if diff := cmp.Diff(map[string]any{"message": tc.message}, decode(t, rec)); diff != "" {
				t.Fatalf("body mismatch (-want +got):\n%s", diff)
			}
			if len(h.generator.calls) != 0 || len(h.sender.sent) != 0 {
				t.Fatalf("no outbound calls expected")
			}
		})
	}
}

func TestBlueprintDelivered(t *testing.T) {
	h := newHarness(t, "info@kortexlabs.test")
	body := `{"email":" ops@acme.test ","company":"Acme","industry":"Logistics","challenge":"Manual handoffs","goal":"Ship faster"}`
	rec := h.do(http.MethodPost, BlueprintPath, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	want := map[string]any{"success": true, "message": "Blueprint sent successfully!"}
	if diff := cmp.Diff(want, decode(t, rec)); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	if len(h.generator.calls) != 1 {
		t.Fatalf("expected one generation call got %d", len(h.generator.calls))
	}
	wantSub := lead.Submission{Email: "ops@acme.test", Company: "Acme", Industry: "Logistics", Challenge: "Manual handoffs", Goal: "Ship faster"}
	if diff := cmp.Diff(wantSub, h.generator.calls[0]); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}

	if len(h.sender.sent) != 2 {
		t.Fatalf("expected two emails got %d", len(h.sender.sent))
	}
	customer := h.sender.sent[0]
	if customer.To != "ops@acme.test" || customer.Subject != "Your Custom Kortex AI Blueprint for Acme" {
		t.Fatalf("unexpected customer email %+v", customer)
	}
	if customer.Text != "" || !strings.Contains(customer.HTML, "Acme Flow Blueprint") || !strings.Contains(customer.HTML, "Step 3: Execute and Automate") {
		t.Fatalf("customer email missing blueprint content")
	}

	internal := h.sender.sent[1]
	if internal.To != "info@kortexlabs.test" || internal.Subject != "New Blueprint Lead: Acme" || internal.HTML != "" {
		t.Fatalf("unexpected notification %+v", internal)
	}
	if !strings.Contains(internal.Text, "Email: ops@acme.test") || !strings.Contains(internal.Text, "Challenge: Manual handoffs") {
		t.Fatalf("notification text incomplete: %q", internal.Text)
	}
}

func TestNotificationDisabledSendsOneEmail(t *testing.T) {
	h := newHarness(t, "")
	rec := h.do(http.MethodPost, BlueprintPath, validBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(h.sender.sent) != 1 {
		t.Fatalf("expected one email got %d", len(h.sender.sent))
	}
}

func TestGenerationFailureSkipsEmail(t *testing.T) {
	for _, genErr := range []error{ai.ErrGenerationFailed, ai.ErrEmptyResponse, ai.ErrMalformedBlueprint, ai.ErrInvalidBlueprint} {
		t.Run(genErr.Error(), func(t *testing.T) {
			h := newHarness(t, "info@kortexlabs.test")
			h.generator.err = genErr
			rec := h.do(http.MethodPost, BlueprintPath, validBody)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500 got %d", rec.Code)
			}
			want := map[string]any{"success": false, "message": "An internal error occurred."}
			if diff := cmp.Diff(want, decode(t, rec)); diff != "" {
				t.Fatalf("body mismatch (-want +got):\n%s", diff)
			}
			if len(h.sender.sent) != 0 {
				t.Fatalf("email provider must not be called")
			}
		})
	}
}

func TestSendFailuresReturn500(t *testing.T) {
	tests := []struct {
		name      string
		failOn    int
		wantCalls int
	}{
		{"customer email fails", 1, 1},
		{"notification fails after customer email", 2, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, "info@kortexlabs.test")
			h.sender.failOn = tc.failOn
			rec := h.do(http.MethodPost, BlueprintPath, validBody)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500 got %d", rec.Code)
			}
			if decode(t, rec)["success"] != false {
				t.Fatalf("expected success=false")
			}
			if len(h.sender.sent) != tc.wantCalls {
				t.Fatalf("expected %d send calls got %d", tc.wantCalls, len(h.sender.sent))
			}
		})
	}
}

func TestModelOutputIsEscapedInEmail(t *testing.T) {
	h := newHarness(t, "")
	bp := sampleBlueprint()
	bp.Steps[0].Description = "<script>steal()</script>"
	h.generator.blueprint = bp

	rec := h.do(http.MethodPost, BlueprintPath, validBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	html := h.sender.sent[0].HTML
	if strings.Contains(html, "<script>") || !strings.Contains(html, "&lt;script&gt;steal()&lt;/script&gt;") {
		t.Fatalf("description not escaped")
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t, "")
	rec := h.do(http.MethodGet, "/api/healthz", "")
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestNewServerWithRequiresDependencies(t *testing.T) {
	if _, err := NewServerWith(Config{}, nil, &recordingSender{}); err == nil {
		t.Fatalf("expected error without generator")
	}
	if _, err := NewServerWith(Config{}, &fakeGenerator{}, nil); err == nil {
		t.Fatalf("expected error without sender")
	}
}

func TestNewServerRequiresGeminiKey(t *testing.T) {
	_, err := NewServer(context.Background(), Config{MailConfig: mail.Config{Provider: mail.ProviderLog}})
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected missing key error got %v", err)
	}
}

func TestNewServerWithLogProvider(t *testing.T) {
	server, err := NewServer(context.Background(), Config{
		AIConfig:   ai.Config{APIKey: "k"},
		MailConfig: mail.Config{Provider: mail.ProviderLog},
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if _, ok := server.sender.(*mail.LogSender); !ok {
		t.Fatalf("expected log sender got %T", server.sender)
	}
}
