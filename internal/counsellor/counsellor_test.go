package counsellor_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/counsellor/internal/counsellor"
	"github.com/edgard/counsellor/internal/gemini"
	"github.com/edgard/counsellor/internal/logger"
	"github.com/edgard/counsellor/internal/metrics"
	"github.com/edgard/counsellor/internal/university"
)

const chatFallback = "Sorry, please try again."

type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newCounsellor(model *fakeModel, m *metrics.Metrics) *counsellor.Counsellor {
	return counsellor.New(model, logger.Discard(), counsellor.Options{ChatFallback: chatFallback, Metrics: m})
}

var errDown = fmt.Errorf("%w: connection reset", gemini.ErrUnavailable)

func TestChat(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: "Consider engineering."}
	c := newCounsellor(model, nil)

	reply, status := c.Chat(context.Background(), "What should I study?", nil, nil)
	assert.Equal(t, "Consider engineering.", reply)
	assert.Equal(t, counsellor.StatusOK, status)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], counsellor.NoProfileContext)
	assert.Contains(t, model.prompts[0], "Student: What should I study?")
}

func TestChat_ModelFailureReturnsFallback(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	c := newCounsellor(&fakeModel{err: errDown}, m)

	reply, status := c.Chat(context.Background(), "hi", &counsellor.Profile{}, nil)
	assert.Equal(t, chatFallback, reply)
	assert.Equal(t, counsellor.StatusModelUnavailable, status)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ModelCalls.WithLabelValues("chat", "model_unavailable")), 0)
}

func TestRecommendUniversities(t *testing.T) {
	t.Parallel()

	five := `[` + strings.Join([]string{
		`{"university_name":"A","match_score":95,"reasoning":"a"}`,
		`{"university_name":"B","match_score":90,"reasoning":"b"}`,
		`{"university_name":"C","match_score":85,"reasoning":"c"}`,
		`{"university_name":"D","match_score":80,"reasoning":"d"}`,
		`{"university_name":"E","match_score":75,"reasoning":"e"}`,
	}, ",") + `]`
	candidates := []university.University{{Name: "A", Country: "X"}}

	tests := []struct {
		name       string
		model      *fakeModel
		limit      int
		wantNames  []string
		wantStatus counsellor.Status
	}{
		{
			name:       "truncates to limit",
			model:      &fakeModel{reply: "Ranked: " + five},
			limit:      3,
			wantNames:  []string{"A", "B", "C"},
			wantStatus: counsellor.StatusOK,
		},
		{
			name:       "default limit",
			model:      &fakeModel{reply: five},
			limit:      0,
			wantNames:  []string{"A", "B", "C", "D", "E"},
			wantStatus: counsellor.StatusOK,
		},
		{
			name:       "single entry embedded in prose",
			model:      &fakeModel{reply: `Here you go: [{"university_name":"X","match_score":90,"reasoning":"ok"}] thanks`},
			limit:      5,
			wantNames:  []string{"X"},
			wantStatus: counsellor.StatusOK,
		},
		{
			name:       "no array in reply",
			model:      &fakeModel{reply: "I think all of them are great."},
			limit:      5,
			wantNames:  []string{},
			wantStatus: counsellor.StatusUnparsable,
		},
		{
			name:       "model unavailable",
			model:      &fakeModel{err: errDown},
			limit:      5,
			wantNames:  []string{},
			wantStatus: counsellor.StatusModelUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newCounsellor(tt.model, nil)
			got, status := c.RecommendUniversities(context.Background(), &counsellor.Profile{}, candidates, tt.limit)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, got)
			names := make([]string, 0, len(got))
			for _, m := range got {
				names = append(names, m.UniversityName)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestRecommendUniversities_SingleEntryFields(t *testing.T) {
	t.Parallel()

	c := newCounsellor(&fakeModel{reply: `Here you go: [{"university_name":"X","match_score":90,"reasoning":"ok"}] thanks`}, nil)
	got, _ := c.RecommendUniversities(context.Background(), nil, nil, 5)
	assert.Equal(t, []counsellor.UniversityMatch{{UniversityName: "X", MatchScore: 90, Reasoning: "ok"}}, got)
}

func TestSuggestCareerPaths(t *testing.T) {
	t.Parallel()

	var entries []string
	for i := 0; i < 7; i++ {
		entries = append(entries, fmt.Sprintf(`{"career_title":"Career %d","key_skills":["s"]}`, i))
	}
	model := &fakeModel{reply: "[" + strings.Join(entries, ",") + "]"}
	c := newCounsellor(model, nil)

	got, status := c.SuggestCareerPaths(context.Background(), &counsellor.Profile{Interests: []string{"biology"}}, "health")
	assert.Equal(t, counsellor.StatusOK, status)
	assert.Len(t, got, counsellor.SuggestionCount)
	assert.Equal(t, "Career 0", got[0].CareerTitle)
	assert.Contains(t, model.prompts[0], "in the field of health")
	assert.Contains(t, model.prompts[0], "Interests: biology")

	empty, status := newCounsellor(&fakeModel{reply: "no idea"}, nil).SuggestCareerPaths(context.Background(), nil, "")
	assert.Equal(t, counsellor.StatusUnparsable, status)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRecommendCourses(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: `[{"course_name":"BSc Nursing","institution_type":"University","duration":"4 years","description":"d","prerequisites":["Biology"],"career_outcomes":["Nurse"]}]`}
	c := newCounsellor(model, nil)

	got, status := c.RecommendCourses(context.Background(), nil, "nurse")
	assert.Equal(t, counsellor.StatusOK, status)
	require.Len(t, got, 1)
	assert.Equal(t, "BSc Nursing", got[0].CourseName)
	assert.Equal(t, []string{"Nurse"}, got[0].CareerOutcomes)

	down, status := newCounsellor(&fakeModel{err: errDown}, nil).RecommendCourses(context.Background(), nil, "")
	assert.Equal(t, counsellor.StatusModelUnavailable, status)
	assert.NotNil(t, down)
	assert.Empty(t, down)
}

func TestAnalyzeDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		model      *fakeModel
		want       counsellor.DocumentAnalysis
		wantStatus counsellor.Status
	}{
		{
			name:  "parsed object",
			model: &fakeModel{reply: `Feedback: {"analysis":"Strong","strengths":["focus"]}`},
			want: counsellor.DocumentAnalysis{
				Analysis:     "Strong",
				Strengths:    []string{"focus"},
				Improvements: []string{},
				Suggestions:  []string{},
			},
			wantStatus: counsellor.StatusOK,
		},
		{
			name:  "unparsable reply becomes the analysis",
			model: &fakeModel{reply: "Overall a good essay."},
			want: counsellor.DocumentAnalysis{
				Analysis:     "Overall a good essay.",
				Strengths:    []string{},
				Improvements: []string{},
				Suggestions:  []string{},
			},
			wantStatus: counsellor.StatusUnparsable,
		},
		{
			name:  "model unavailable",
			model: &fakeModel{err: errors.New("boom")},
			want: counsellor.DocumentAnalysis{
				Analysis:     counsellor.UnableToAnalyze,
				Strengths:    []string{},
				Improvements: []string{},
				Suggestions:  []string{},
			},
			wantStatus: counsellor.StatusModelUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, status := newCounsellor(tt.model, nil).AnalyzeDocument(context.Background(), "My essay", "")
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.want, got)
		})
	}
}
