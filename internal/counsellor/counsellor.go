package counsellor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/edgard/counsellor/internal/gemini"
	"github.com/edgard/counsellor/internal/metrics"
	"github.com/edgard/counsellor/internal/university"
)

const (
	// DefaultUniversityLimit applies when RecommendUniversities gets limit <= 0.
	DefaultUniversityLimit = 5
	// SuggestionCount is how many careers or courses are requested and kept.
	SuggestionCount = 5
	// UnableToAnalyze is the analysis text used when the model is unreachable.
	UnableToAnalyze = "Unable to analyze document."
)

// Options configures a Counsellor.
type Options struct {
	// ChatFallback is returned by Chat when the model call fails.
	ChatFallback string
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Counsellor runs the counselling operations against a model client.
// It holds no mutable state and is safe for concurrent use.
type Counsellor struct {
	client  gemini.Client
	log     *slog.Logger
	metrics *metrics.Metrics
	opts    Options
}

// New creates a Counsellor backed by client.
func New(client gemini.Client, log *slog.Logger, opts Options) *Counsellor {
	return &Counsellor{
		client:  client,
		log:     log.With("component", "counsellor"),
		metrics: opts.Metrics,
		opts:    opts,
	}
}

// Chat answers a free-form message. On model failure the configured
// fallback text is returned with StatusModelUnavailable.
func (c *Counsellor) Chat(ctx context.Context, message string, profile *Profile, history []Turn) (string, Status) {
	startTime := time.Now()
	prompt := ChatPrompt(message, BuildContext(profile), history)

	reply, err := c.client.Generate(ctx, prompt)
	if err != nil {
		c.fallback(ctx, "chat", StatusModelUnavailable, err, startTime)
		return c.opts.ChatFallback, StatusModelUnavailable
	}

	c.done(ctx, "chat", startTime)
	return reply, StatusOK
}

// RecommendUniversities ranks candidates for the profile and keeps at most
// limit matches.
func (c *Counsellor) RecommendUniversities(ctx context.Context, profile *Profile, candidates []university.University, limit int) ([]UniversityMatch, Status) {
	if limit <= 0 {
		limit = DefaultUniversityLimit
	}
	prompt := UniversityRankingPrompt(BuildContext(profile), candidates, limit)
	return generateList[UniversityMatch](ctx, c, "recommend_universities", prompt, limit)
}

// SuggestCareerPaths proposes career paths, optionally within one field.
func (c *Counsellor) SuggestCareerPaths(ctx context.Context, profile *Profile, fieldOfInterest string) ([]CareerOption, Status) {
	prompt := CareerSuggestionPrompt(BuildContext(profile), fieldOfInterest)
	return generateList[CareerOption](ctx, c, "suggest_career_paths", prompt, SuggestionCount)
}

// RecommendCourses proposes courses, optionally towards one career goal.
func (c *Counsellor) RecommendCourses(ctx context.Context, profile *Profile, careerGoal string) ([]CourseRecommendation, Status) {
	prompt := CourseRecommendationPrompt(BuildContext(profile), careerGoal)
	return generateList[CourseRecommendation](ctx, c, "recommend_courses", prompt, SuggestionCount)
}

// AnalyzeDocument reviews a document. When the reply cannot be parsed the
// raw reply becomes the analysis; when the model is unreachable the analysis
// is UnableToAnalyze. List fields are never nil.
func (c *Counsellor) AnalyzeDocument(ctx context.Context, text, documentType string) (DocumentAnalysis, Status) {
	const op = "analyze_document"
	startTime := time.Now()

	reply, err := c.client.Generate(ctx, DocumentAnalysisPrompt(text, documentType))
	if err != nil {
		c.fallback(ctx, op, StatusModelUnavailable, err, startTime)
		return emptyAnalysis(UnableToAnalyze), StatusModelUnavailable
	}

	analysis, err := ExtractObject[DocumentAnalysis](reply)
	if err != nil {
		c.fallback(ctx, op, StatusUnparsable, err, startTime)
		return emptyAnalysis(reply), StatusUnparsable
	}

	c.done(ctx, op, startTime)
	return normalizeAnalysis(analysis), StatusOK
}

// generateList runs one structured list operation. Failures yield an empty,
// non-nil slice; successes are truncated to limit.
func generateList[T any](ctx context.Context, c *Counsellor, op, prompt string, limit int) ([]T, Status) {
	startTime := time.Now()

	reply, err := c.client.Generate(ctx, prompt)
	if err != nil {
		c.fallback(ctx, op, StatusModelUnavailable, err, startTime)
		return []T{}, StatusModelUnavailable
	}

	items, err := ExtractArray[T](reply)
	if err != nil {
		c.fallback(ctx, op, StatusUnparsable, err, startTime)
		return []T{}, StatusUnparsable
	}

	if items == nil {
		items = []T{}
	}
	if len(items) > limit {
		items = items[:limit]
	}

	c.done(ctx, op, startTime)
	return items, StatusOK
}

func (c *Counsellor) fallback(ctx context.Context, op string, status Status, err error, startTime time.Time) {
	attrs := []any{"operation", op, "status", status, "error", err}
	if errors.Is(err, gemini.ErrBlocked) {
		attrs = append(attrs, "blocked", true)
	}
	c.log.WarnContext(ctx, "Counsellor operation fell back", attrs...)
	c.metrics.ObserveModelCall(op, string(status), time.Since(startTime))
}

func (c *Counsellor) done(ctx context.Context, op string, startTime time.Time) {
	elapsed := time.Since(startTime)
	c.log.DebugContext(ctx, "Counsellor operation completed", "operation", op, "duration_ms", elapsed.Milliseconds())
	c.metrics.ObserveModelCall(op, string(StatusOK), elapsed)
}

func emptyAnalysis(text string) DocumentAnalysis {
	return DocumentAnalysis{
		Analysis:     text,
		Strengths:    []string{},
		Improvements: []string{},
		Suggestions:  []string{},
	}
}

func normalizeAnalysis(a DocumentAnalysis) DocumentAnalysis {
	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.Improvements == nil {
		a.Improvements = []string{}
	}
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
	return a
}
