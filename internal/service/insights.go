package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"
	"github.com/vinizanotti89/influencer-panel-go/internal/constants"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
	"github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// TextProvider is a single model backend for report summaries.
type TextProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	Ping(ctx context.Context) bool
}

// InsightsService produces natural-language summaries of influencer profiles.
// Gemini is the primary backend; OpenAI is a fallback when enabled. A shared
// circuit breaker shields both from sustained upstream failures.
type InsightsService struct {
	primary  TextProvider
	fallback TextProvider
	breaker  *util.CircuitBreaker
	logger   *zap.Logger
}

type InsightsConfig struct {
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	EnableFallback bool
}

func NewInsightsService(ctx context.Context, cfg InsightsConfig, logger *zap.Logger) (*InsightsService, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	geminiModel := cfg.GeminiModel
	if geminiModel == "" {
		geminiModel = "gemini-2.5-flash"
	}

	is := &InsightsService{
		primary: &geminiProvider{
			client: geminiClient,
			model:  geminiModel,
			logger: logger,
		},
		logger: logger,
	}

	if cfg.EnableFallback && cfg.OpenAIAPIKey != "" {
		openaiModel := cfg.OpenAIModel
		if openaiModel == "" {
			openaiModel = "gpt-4.1-mini"
		}
		client := openai.NewClient(openaioption.WithAPIKey(cfg.OpenAIAPIKey))
		is.fallback = &openaiProvider{
			client: &client,
			model:  openaiModel,
			logger: logger,
		}
		logger.Info("OpenAI fallback enabled", zap.String("model", openaiModel))
	} else {
		logger.Info("OpenAI fallback disabled")
	}

	is.breaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		is.healthCheckPing,
		logger,
	)

	return is, nil
}

// GenerateReportSummary writes a short analysis of a normalized profile.
func (is *InsightsService) GenerateReportSummary(ctx context.Context, profile *domain.InfluencerProfile) (string, error) {
	if profile == nil {
		return "", errors.NewValidationError("profile is required", "profile", nil)
	}

	if !is.breaker.CanExecute() {
		status := is.breaker.GetStatus()
		is.logger.Error("Insights unavailable (circuit open)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
		)
		return "", errors.NewServiceError("insights temporarily unavailable", "insights", "generate", nil)
	}

	prompt := buildSummaryPrompt(profile)

	text, primaryErr := is.primary.Generate(ctx, prompt)
	if primaryErr == nil {
		is.breaker.RecordSuccess()
		return strings.TrimSpace(text), nil
	}

	is.logger.Warn("Primary insights provider failed",
		zap.String("provider", is.primary.Name()),
		zap.Error(primaryErr))

	if is.fallback != nil {
		text, fallbackErr := is.fallback.Generate(ctx, prompt)
		if fallbackErr == nil {
			is.breaker.RecordSuccess()
			is.logger.Info("Insights produced via fallback",
				zap.String("provider", is.fallback.Name()))
			return strings.TrimSpace(text), nil
		}
		is.recordProviderFailure(primaryErr, fallbackErr)
		return "", errors.NewServiceError("insights generation failed", "insights", "generate", fallbackErr)
	}

	is.recordProviderFailure(primaryErr, nil)
	return "", errors.NewServiceError("insights generation failed", "insights", "generate", primaryErr)
}

func (is *InsightsService) recordProviderFailure(primaryErr, fallbackErr error) {
	if !isServiceFailure(primaryErr) && !isServiceFailure(fallbackErr) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if isRateLimitError(primaryErr) || isRateLimitError(fallbackErr) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	is.breaker.RecordFailure(timeout)
}

func (is *InsightsService) healthCheckPing() bool {
	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	primaryOK := is.primary.Ping(ctx)
	fallbackOK := false
	if is.fallback != nil {
		fallbackOK = is.fallback.Ping(ctx)
	}

	isHealthy := primaryOK || fallbackOK

	is.logger.Info("Insights health check",
		zap.Bool("primary", primaryOK),
		zap.Bool("fallback", fallbackOK),
		zap.Bool("healthy", isHealthy),
	)

	return isHealthy
}

func buildSummaryPrompt(profile *domain.InfluencerProfile) string {
	var sb strings.Builder
	sb.WriteString("Write a concise influencer analysis in 3 short paragraphs: audience reach, engagement quality, and brand-partnership fit.\n\n")
	fmt.Fprintf(&sb, "Name: %s\n", profile.DisplayName)
	fmt.Fprintf(&sb, "Platform: %s\n", profile.Platform)
	fmt.Fprintf(&sb, "Followers: %s\n", profile.FollowersFormatted)
	fmt.Fprintf(&sb, "Engagement rate: %.2f%%\n", profile.Metrics.Engagement)
	if len(profile.Categories) > 0 {
		fmt.Fprintf(&sb, "Categories: %s\n", strings.Join(profile.Categories, ", "))
	}
	if profile.TrustScore != nil {
		fmt.Fprintf(&sb, "Trust score: %d/100\n", *profile.TrustScore)
	}
	return sb.String()
}

// geminiProvider is the primary backend.
type geminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func (g *geminiProvider) Name() string {
	return "Gemini"
}

func (g *geminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	temperature := float32(0.4)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 1024,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}, config)
	if err != nil {
		g.logger.Error("Gemini generation failed", zap.Error(err))
		return "", err
	}

	text := extractGeminiText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	g.logger.Debug("Gemini response received", zap.Int("length", len(text)))
	return text, nil
}

func (g *geminiProvider) Ping(ctx context.Context) bool {
	if g.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	temperature := float32(0)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{Parts: []*genai.Part{{Text: "ping"}}},
	}, &genai.GenerateContentConfig{Temperature: &temperature, MaxOutputTokens: 10})
	if err != nil {
		g.logger.Debug("Gemini ping failed", zap.Error(err))
		return false
	}

	return extractGeminiText(resp) != ""
}

func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}

// openaiProvider is the fallback backend.
type openaiProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func (o *openaiProvider) Name() string {
	return "OpenAI"
}

func (o *openaiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if o.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	o.logger.Info("Fallback: generating with OpenAI", zap.String("model", o.model))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(1024),
		Temperature:         openai.Float(0.4),
	})
	if err != nil {
		o.logger.Error("OpenAI generation failed", zap.Error(err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	return resp.Choices[0].Message.Content, nil
}

func (o *openaiProvider) Ping(ctx context.Context) bool {
	if o.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		},
		MaxTokens:   openai.Int(10),
		Temperature: openai.Float(0),
	})
	if err != nil {
		o.logger.Debug("OpenAI ping failed", zap.Error(err))
		return false
	}

	return len(resp.Choices) > 0
}

var (
	httpStatusPattern = regexp.MustCompile(`\b(5\d{2})\b`)
	apiCodePattern    = regexp.MustCompile(`"code":(\d{3})`)
)

func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "connection refused") {
		return true
	}

	if isRateLimitError(err) {
		return true
	}

	if httpStatusPattern.MatchString(msg) {
		return true
	}

	if matches := apiCodePattern.FindStringSubmatch(msg); len(matches) > 1 {
		if code, convErr := strconv.Atoi(matches[1]); convErr == nil {
			return code >= 500 && code < 600
		}
	}

	return false
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") {
		return true
	}

	if matches := apiCodePattern.FindStringSubmatch(msg); len(matches) > 1 {
		if code, convErr := strconv.Atoi(matches[1]); convErr == nil {
			return code == 429
		}
	}

	return false
}
