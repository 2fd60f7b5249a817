package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/service"
	apperrors "github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
)

type fakeInfluencerStore struct {
	profiles map[string]*domain.InfluencerProfile
	failWith error
}

func newFakeInfluencerStore(profiles ...*domain.InfluencerProfile) *fakeInfluencerStore {
	store := &fakeInfluencerStore{profiles: make(map[string]*domain.InfluencerProfile)}
	for _, profile := range profiles {
		store.profiles[profile.ID] = profile
	}
	return store
}

func (f *fakeInfluencerStore) GetAll(ctx context.Context, page, limit int) ([]*domain.InfluencerProfile, int, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	result := make([]*domain.InfluencerProfile, 0, len(f.profiles))
	for _, profile := range f.profiles {
		result = append(result, profile)
	}
	return result, len(result), nil
}

func (f *fakeInfluencerStore) GetByID(ctx context.Context, id string) (*domain.InfluencerProfile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.profiles[id], nil
}

func (f *fakeInfluencerStore) FindByUsername(ctx context.Context, username string, platform domain.Platform) (*domain.InfluencerProfile, error) {
	for _, profile := range f.profiles {
		if profile.Username != username {
			continue
		}
		if platform != "" && profile.Platform != platform {
			continue
		}
		return profile, nil
	}
	return nil, nil
}

func (f *fakeInfluencerStore) Create(ctx context.Context, profile *domain.InfluencerProfile) (*domain.InfluencerProfile, error) {
	if profile.ID == "" {
		profile.ID = fmt.Sprintf("gen-%d", len(f.profiles)+1)
	}
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeInfluencerStore) Update(ctx context.Context, profile *domain.InfluencerProfile) (*domain.InfluencerProfile, error) {
	if _, ok := f.profiles[profile.ID]; !ok {
		return nil, nil
	}
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeInfluencerStore) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.profiles[id]; !ok {
		return false, nil
	}
	delete(f.profiles, id)
	return true, nil
}

type fakeReportStore struct {
	reports []*domain.Report
}

func (f *fakeReportStore) GetAll(ctx context.Context, page, limit int) ([]*domain.Report, int, error) {
	return f.reports, len(f.reports), nil
}

func (f *fakeReportStore) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	for _, report := range f.reports {
		if report.ID == id {
			return report, nil
		}
	}
	return nil, nil
}

func (f *fakeReportStore) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	report.ID = fmt.Sprintf("report-%d", len(f.reports)+1)
	f.reports = append(f.reports, report)
	return report, nil
}

type fakeSearcher struct {
	results []*service.PlatformResult
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, term string, platforms []domain.Platform) ([]*service.PlatformResult, error) {
	return f.results, f.err
}

func (f *fakeSearcher) Platforms() []domain.Platform {
	return domain.AllPlatforms
}

type fakeAnalyzer struct {
	summary string
	err     error
}

func (f *fakeAnalyzer) GenerateReportSummary(ctx context.Context, profile *domain.InfluencerProfile) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func testProfile(id, username string, platform domain.Platform) *domain.InfluencerProfile {
	profile := &domain.InfluencerProfile{
		ID:          id,
		Username:    username,
		DisplayName: username,
		Platform:    platform,
		Followers:   1000,
	}
	profile.SetTrustScore(70)
	return profile
}

func newTestServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return New(opts)
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	s.Handler().ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v\n%s", err, recorder.Body.String())
	}
	return body
}

func TestListInfluencersEnvelope(t *testing.T) {
	store := newFakeInfluencerStore(
		testProfile("a", "ana", domain.PlatformInstagram),
		testProfile("b", "bruno", domain.PlatformYouTube),
	)
	s := newTestServer(Options{Influencers: store, Reports: &fakeReportStore{}})

	recorder := doRequest(t, s, http.MethodGet, "/api/influencers?page=1&limit=10", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	body := decodeBody(t, recorder)
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("data is not an array: %v", body["data"])
	}
	if len(data) != 2 {
		t.Errorf("data length = %d, want 2", len(data))
	}

	meta, ok := body["meta"].(map[string]any)
	if !ok {
		t.Fatal("meta missing from list response")
	}
	if meta["total"] != float64(2) {
		t.Errorf("meta.total = %v, want 2", meta["total"])
	}
}

func TestGetInfluencerNotFound(t *testing.T) {
	s := newTestServer(Options{Influencers: newFakeInfluencerStore(), Reports: &fakeReportStore{}})

	recorder := doRequest(t, s, http.MethodGet, "/api/influencers/missing", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}

	body := decodeBody(t, recorder)
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatal("error payload missing")
	}
	if errObj["code"] != apperrors.CodeNotFound {
		t.Errorf("error code = %v, want %s", errObj["code"], apperrors.CodeNotFound)
	}
}

func TestGetInfluencerByUsername(t *testing.T) {
	store := newFakeInfluencerStore(
		testProfile("a", "ana", domain.PlatformInstagram),
		testProfile("b", "ana", domain.PlatformYouTube),
	)
	s := newTestServer(Options{Influencers: store, Reports: &fakeReportStore{}})

	recorder := doRequest(t, s, http.MethodGet, "/api/influencers/username/ana?platform=youtube", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	body := decodeBody(t, recorder)
	data := body["data"].(map[string]any)
	if data["platform"] != "YouTube" {
		t.Errorf("platform = %v, want YouTube", data["platform"])
	}
}

func TestCreateInfluencerValidation(t *testing.T) {
	s := newTestServer(Options{Influencers: newFakeInfluencerStore(), Reports: &fakeReportStore{}})

	recorder := doRequest(t, s, http.MethodPost, "/api/influencers", map[string]any{
		"username": "",
		"platform": "Instagram",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestCreateAndDeleteInfluencer(t *testing.T) {
	store := newFakeInfluencerStore()
	s := newTestServer(Options{Influencers: store, Reports: &fakeReportStore{}})

	recorder := doRequest(t, s, http.MethodPost, "/api/influencers", map[string]any{
		"username":  "carla",
		"platform":  "Instagram",
		"followers": 5000,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201\n%s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	id := body["data"].(map[string]any)["id"].(string)

	recorder = doRequest(t, s, http.MethodDelete, "/api/influencers/"+id, nil)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", recorder.Code)
	}

	recorder = doRequest(t, s, http.MethodDelete, "/api/influencers/"+id, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", recorder.Code)
	}
}

func TestCreateInfluencerSanitizesPayload(t *testing.T) {
	store := newFakeInfluencerStore()
	s := newTestServer(Options{Influencers: store, Reports: &fakeReportStore{}})

	recorder := doRequest(t, s, http.MethodPost, "/api/influencers", map[string]any{
		"username":   "carla",
		"platform":   "Instagram",
		"followers":  1500000,
		"trustScore": 400,
		"categories": []string{
			"fitness", "Fitness", "travel", "food", "beauty", "music", "gaming",
		},
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201\n%s", recorder.Code, recorder.Body.String())
	}

	data := decodeBody(t, recorder)["data"].(map[string]any)
	if score := data["trustScore"].(float64); score != 100 {
		t.Errorf("trustScore = %v, want clamped to 100", score)
	}
	categories := data["categories"].([]any)
	if len(categories) != 5 {
		t.Errorf("expected categories deduped and capped at 5, got %v", categories)
	}
	if formatted := data["followersFormatted"].(string); formatted != "1.5M" {
		t.Errorf("followersFormatted = %q, want 1.5M", formatted)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	s := newTestServer(Options{
		Influencers: newFakeInfluencerStore(),
		Reports:     &fakeReportStore{},
		Searcher:    &fakeSearcher{},
	})

	recorder := doRequest(t, s, http.MethodGet, "/api/search", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestSearchRejectsUnknownPlatform(t *testing.T) {
	s := newTestServer(Options{
		Influencers: newFakeInfluencerStore(),
		Reports:     &fakeReportStore{},
		Searcher:    &fakeSearcher{},
	})

	recorder := doRequest(t, s, http.MethodGet, "/api/search?q=ana&platforms=tiktok", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestSearchReturnsPerPlatformResults(t *testing.T) {
	profile := testProfile("x", "ana", domain.PlatformInstagram)
	searcher := &fakeSearcher{
		results: []*service.PlatformResult{
			{Platform: domain.PlatformInstagram, Profile: profile},
			{Platform: domain.PlatformYouTube, Error: "channel not found"},
		},
	}
	s := newTestServer(Options{
		Influencers: newFakeInfluencerStore(),
		Reports:     &fakeReportStore{},
		Searcher:    searcher,
	})

	recorder := doRequest(t, s, http.MethodGet, "/api/search?q=ana", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	body := decodeBody(t, recorder)
	data := body["data"].(map[string]any)
	results := data["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("results length = %d, want 2", len(results))
	}

	failed := results[1].(map[string]any)
	if failed["error"] != "channel not found" {
		t.Errorf("failed result error = %v", failed["error"])
	}
	if _, hasProfile := failed["profile"]; hasProfile {
		t.Error("failed result should omit profile")
	}
}

func TestCreateReportWithSummary(t *testing.T) {
	store := newFakeInfluencerStore(testProfile("inf-1", "ana", domain.PlatformInstagram))
	reports := &fakeReportStore{}
	s := newTestServer(Options{
		Influencers: store,
		Reports:     reports,
		Analyzer:    &fakeAnalyzer{summary: "strong niche audience"},
	})

	recorder := doRequest(t, s, http.MethodPost, "/api/reports", map[string]any{
		"influencerId":    "inf-1",
		"generateSummary": true,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201\n%s", recorder.Code, recorder.Body.String())
	}

	body := decodeBody(t, recorder)
	data := body["data"].(map[string]any)
	if data["summary"] != "strong niche audience" {
		t.Errorf("summary = %v", data["summary"])
	}
	if data["status"] != string(domain.ReportStatusCompleted) {
		t.Errorf("status = %v, want completed", data["status"])
	}
}

func TestCreateReportSummaryFailureDowngrades(t *testing.T) {
	store := newFakeInfluencerStore(testProfile("inf-1", "ana", domain.PlatformInstagram))
	s := newTestServer(Options{
		Influencers: store,
		Reports:     &fakeReportStore{},
		Analyzer:    &fakeAnalyzer{err: fmt.Errorf("model unavailable")},
	})

	recorder := doRequest(t, s, http.MethodPost, "/api/reports", map[string]any{
		"influencerId":    "inf-1",
		"generateSummary": true,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", recorder.Code)
	}

	body := decodeBody(t, recorder)
	data := body["data"].(map[string]any)
	if data["status"] != string(domain.ReportStatusFailed) {
		t.Errorf("status = %v, want failed", data["status"])
	}
}

func TestCreateReportUnknownInfluencer(t *testing.T) {
	s := newTestServer(Options{
		Influencers: newFakeInfluencerStore(),
		Reports:     &fakeReportStore{},
	})

	recorder := doRequest(t, s, http.MethodPost, "/api/reports", map[string]any{
		"influencerId": "ghost",
	})
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(Options{
		Influencers: newFakeInfluencerStore(),
		Reports:     &fakeReportStore{},
		Searcher:    &fakeSearcher{},
		DB:          &fakePinger{},
	})

	recorder := doRequest(t, s, http.MethodGet, "/api/health", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	body := decodeBody(t, recorder)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestHealthEndpointDegraded(t *testing.T) {
	s := newTestServer(Options{
		Influencers: newFakeInfluencerStore(),
		Reports:     &fakeReportStore{},
		DB:          &fakePinger{err: fmt.Errorf("connection refused")},
	})

	recorder := doRequest(t, s, http.MethodGet, "/api/health", nil)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", recorder.Code)
	}
}
