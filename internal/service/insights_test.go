package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/vinizanotti89/influencer-panel-go/internal/constants"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
	"go.uber.org/zap"
)

type fakeTextProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeTextProvider) Name() string {
	return f.name
}

func (f *fakeTextProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeTextProvider) Ping(ctx context.Context) bool {
	return f.err == nil
}

func newTestInsightsService(primary, fallback TextProvider) *InsightsService {
	logger := zap.NewNop()
	return &InsightsService{
		primary:  primary,
		fallback: fallback,
		breaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			constants.CircuitBreakerConfig.HealthCheckInterval,
			nil,
			logger,
		),
		logger: logger,
	}
}

func sampleProfile() *domain.InfluencerProfile {
	profile := &domain.InfluencerProfile{
		ID:                 "abc",
		Username:           "jane",
		DisplayName:        "Jane Doe",
		Platform:           domain.PlatformInstagram,
		Followers:          250000,
		FollowersFormatted: "250.0K",
		Categories:         []string{"Fashion", "Travel"},
	}
	profile.Metrics.Engagement = 3.2
	profile.SetTrustScore(80)
	return profile
}

func TestGenerateReportSummaryPrimarySucceeds(t *testing.T) {
	primary := &fakeTextProvider{name: "Gemini", text: "  solid engagement  "}
	fallback := &fakeTextProvider{name: "OpenAI", text: "fallback text"}
	is := newTestInsightsService(primary, fallback)

	summary, err := is.GenerateReportSummary(context.Background(), sampleProfile())
	if err != nil {
		t.Fatalf("GenerateReportSummary returned error: %v", err)
	}
	if summary != "solid engagement" {
		t.Errorf("summary = %q, want trimmed primary text", summary)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback should not be called, got %d calls", fallback.calls)
	}
}

func TestGenerateReportSummaryFallsBack(t *testing.T) {
	primary := &fakeTextProvider{name: "Gemini", err: fmt.Errorf("503 backend error")}
	fallback := &fakeTextProvider{name: "OpenAI", text: "fallback analysis"}
	is := newTestInsightsService(primary, fallback)

	summary, err := is.GenerateReportSummary(context.Background(), sampleProfile())
	if err != nil {
		t.Fatalf("expected fallback to cover primary failure: %v", err)
	}
	if summary != "fallback analysis" {
		t.Errorf("summary = %q, want fallback text", summary)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = primary %d / fallback %d, want 1/1", primary.calls, fallback.calls)
	}
}

func TestGenerateReportSummaryBothFail(t *testing.T) {
	primary := &fakeTextProvider{name: "Gemini", err: fmt.Errorf("503 backend error")}
	fallback := &fakeTextProvider{name: "OpenAI", err: fmt.Errorf("timeout")}
	is := newTestInsightsService(primary, fallback)

	if _, err := is.GenerateReportSummary(context.Background(), sampleProfile()); err == nil {
		t.Fatal("expected error when both providers fail")
	}
}

func TestGenerateReportSummaryNilProfile(t *testing.T) {
	is := newTestInsightsService(&fakeTextProvider{name: "Gemini", text: "x"}, nil)

	if _, err := is.GenerateReportSummary(context.Background(), nil); err == nil {
		t.Fatal("expected validation error for nil profile")
	}
}

func TestGenerateReportSummaryCircuitOpens(t *testing.T) {
	primary := &fakeTextProvider{name: "Gemini", err: fmt.Errorf("503 backend error")}
	is := newTestInsightsService(primary, nil)

	for i := 0; i < constants.CircuitBreakerConfig.FailureThreshold; i++ {
		if _, err := is.GenerateReportSummary(context.Background(), sampleProfile()); err == nil {
			t.Fatalf("attempt %d should fail", i+1)
		}
	}

	callsBefore := primary.calls
	if _, err := is.GenerateReportSummary(context.Background(), sampleProfile()); err == nil {
		t.Fatal("expected circuit-open error")
	}
	if primary.calls != callsBefore {
		t.Error("open circuit should not reach the provider")
	}
}

func TestIsRateLimitError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("got 429 from upstream"), true},
		{fmt.Errorf(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`), true},
		{fmt.Errorf("quota exceeded for today"), true},
		{fmt.Errorf("invalid request"), false},
		{nil, false},
	}

	for _, tc := range cases {
		if got := isRateLimitError(tc.err); got != tc.want {
			t.Errorf("isRateLimitError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
