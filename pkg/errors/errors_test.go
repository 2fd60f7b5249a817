package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNormalizeKeepsPanelErrorCode(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidationError("username is required", "username", ""), CodeValidation, 400},
		{"not found", NewNotFoundError("influencer", "abc"), CodeNotFound, 404},
		{"api", NewAPIError("upstream said no", 502, nil), CodeAPIError, 502},
		{"service", NewServiceError("fetch failed", "instagram", "get_profile", fmt.Errorf("boom")), CodeService, 500},
		{"key rotation", NewKeyRotationError("all tokens exhausted", 429, nil), CodeKeyRotation, 429},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			normalized := Normalize(tc.err, "instagram")
			if normalized.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", normalized.Code, tc.wantCode)
			}
			if normalized.Platform != "instagram" {
				t.Errorf("platform = %q, want instagram", normalized.Platform)
			}
			if got := StatusCode(tc.err); got != tc.wantStatus {
				t.Errorf("status = %d, want %d", got, tc.wantStatus)
			}
		})
	}
}

func TestNormalizeGenericError(t *testing.T) {
	normalized := Normalize(fmt.Errorf("raw driver error: conn reset"), "youtube")
	if normalized.Code != CodeService {
		t.Errorf("code = %q, want %q", normalized.Code, CodeService)
	}
	if normalized.Message == "raw driver error: conn reset" {
		t.Error("raw error text must not leak to the client")
	}
}

func TestNormalizeWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("report", "r1"))
	normalized := Normalize(wrapped, "")
	if normalized.Code != CodeNotFound {
		t.Errorf("code = %q, want %q", normalized.Code, CodeNotFound)
	}
	if StatusCode(wrapped) != 404 {
		t.Errorf("status = %d, want 404", StatusCode(wrapped))
	}
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := NewServiceError("fetch failed", "linkedin", "scrape", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the original cause through the chain")
	}
}

func TestStatusCodeDefaultsTo500(t *testing.T) {
	if got := StatusCode(fmt.Errorf("anything")); got != 500 {
		t.Errorf("status = %d, want 500", got)
	}
}
