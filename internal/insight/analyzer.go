// Package insight asks a generative model for a short market analysis of one
// asset and turns whatever comes back into a complete AIAnalysisResult.
package insight

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-pulse/internal/logger"
	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// DefaultTimeout bounds one model call.
const DefaultTimeout = 30 * time.Second

// Model generates text for a prompt. Implementations must enable web search grounding.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// MissingKeyResult is returned by Analyze when no model is configured.
func MissingKeyResult() types.AIAnalysisResult {
	return types.AIAnalysisResult{
		Summary:         "API Key missing. Please configure the GEMINI_API_KEY to enable AI analysis.",
		Sentiment:       types.SentimentNeutral,
		TechnicalSignal: "Configuration Error",
	}
}

// FallbackResult is returned by Analyze when the model call or decoding fails.
func FallbackResult() types.AIAnalysisResult {
	return types.AIAnalysisResult{
		Summary:         "Unable to fetch live AI analysis at this moment. Market shows standard volatility.",
		Sentiment:       types.SentimentNeutral,
		TechnicalSignal: "Data Unavailable",
	}
}

// Analyzer runs insight requests. It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	model   Model
	timeout time.Duration
	logger  *logger.Logger
}

// NewAnalyzer creates an analyzer. A nil model means no credential is configured.
// A non-positive timeout uses DefaultTimeout.
func NewAnalyzer(model Model, timeout time.Duration, log *logger.Logger) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Analyzer{
		model:   model,
		timeout: timeout,
		logger:  log.Named("insight"),
	}
}

// Configured reports whether a model is available.
func (a *Analyzer) Configured() bool {
	return a.model != nil
}

// Analyze never fails: configuration and model problems are reported as
// placeholder results.
func (a *Analyzer) Analyze(ctx context.Context, snapshot types.MarketSnapshot) types.AIAnalysisResult {
	if !a.Configured() {
		a.logger.Warn("Gemini API key is missing", zap.String("asset", string(snapshot.Asset)))

		return MissingKeyResult()
	}

	result, err := a.AnalyzeStrict(ctx, snapshot)
	if err != nil {
		return FallbackResult()
	}

	return result
}

// AnalyzeStrict reports failures instead of hiding them. Errors carry
// ErrCodeModelNotConfigured or ErrCodeModelInvocationFailed, or are a
// *DecodeError with the raw model text.
func (a *Analyzer) AnalyzeStrict(ctx context.Context, snapshot types.MarketSnapshot) (types.AIAnalysisResult, error) {
	if !a.Configured() {
		//nolint:exhaustruct // empty result on error
		return types.AIAnalysisResult{}, errors.New(errors.ErrCodeModelNotConfigured, "API Key not configured on server.")
	}

	requestID := uuid.NewString()
	log := a.logger.With(zap.String("request_id", requestID), zap.String("asset", string(snapshot.Asset)))

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()

	text, err := a.model.Generate(ctx, BuildPrompt(snapshot))
	if err != nil {
		log.Error("Gemini analysis failed", zap.Error(err))

		//nolint:exhaustruct // empty result on error
		return types.AIAnalysisResult{}, errors.Wrap(errors.ErrCodeModelInvocationFailed, "model call failed", err)
	}

	if strings.TrimSpace(text) == "" {
		log.Error("Gemini returned no text")

		//nolint:exhaustruct // empty result on error
		return types.AIAnalysisResult{}, errors.New(errors.ErrCodeModelInvocationFailed, "No text response from Gemini.")
	}

	decoded, err := Decode(text)
	if err != nil {
		log.Error("JSON parsing failed", zap.String("raw", text), zap.Error(err))

		//nolint:exhaustruct // empty result on error
		return types.AIAnalysisResult{}, err
	}

	result := Normalize(decoded)
	log.Info("Analysis complete",
		zap.String("sentiment", string(result.Sentiment)),
		zap.Duration("took", time.Since(start)),
	)

	return result, nil
}
