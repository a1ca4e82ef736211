package counsellor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/counsellor/internal/counsellor"
)

func TestExtractArray(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reply   string
		want    []counsellor.UniversityMatch
		wantErr error
	}{
		{
			name:  "payload surrounded by prose",
			reply: `Here you go: [{"university_name":"X","match_score":90,"reasoning":"ok"}] thanks`,
			want:  []counsellor.UniversityMatch{{UniversityName: "X", MatchScore: 90, Reasoning: "ok"}},
		},
		{
			name:  "fenced payload",
			reply: "```json\n[{\"university_name\":\"Y\",\"match_score\":71.5,\"reasoning\":\"\"}]\n```",
			want:  []counsellor.UniversityMatch{{UniversityName: "Y", MatchScore: 71.5}},
		},
		{
			name:  "empty array",
			reply: "nothing fits []",
			want:  []counsellor.UniversityMatch{},
		},
		{
			name:    "no bracket",
			reply:   "I could not rank these universities.",
			wantErr: counsellor.ErrNoPayload,
		},
		{
			name:    "close before open",
			reply:   "] oops [",
			wantErr: counsellor.ErrNoPayload,
		},
		{
			name:    "malformed json",
			reply:   `[{"university_name": "X",]`,
			wantErr: counsellor.ErrMalformedPayload,
		},
		{
			name:    "brackets in trailing prose widen the span",
			reply:   `[{"university_name":"X","match_score":1,"reasoning":"r"}] see note [1]`,
			wantErr: counsellor.ErrMalformedPayload,
		},
		{
			name:    "wrong element type",
			reply:   `[{"university_name":"X","match_score":"high","reasoning":"r"}]`,
			wantErr: counsellor.ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := counsellor.ExtractArray[counsellor.UniversityMatch](tt.reply)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractObject(t *testing.T) {
	t.Parallel()

	got, err := counsellor.ExtractObject[counsellor.DocumentAnalysis](
		`Sure! {"analysis":"solid","strengths":["clear"],"improvements":[],"suggestions":["add metrics"]} Good luck.`)
	require.NoError(t, err)
	assert.Equal(t, counsellor.DocumentAnalysis{
		Analysis:     "solid",
		Strengths:    []string{"clear"},
		Improvements: []string{},
		Suggestions:  []string{"add metrics"},
	}, got)

	_, err = counsellor.ExtractObject[counsellor.DocumentAnalysis]("no braces here")
	assert.ErrorIs(t, err, counsellor.ErrNoPayload)

	partial, err := counsellor.ExtractObject[counsellor.DocumentAnalysis](`{"analysis":"half", "strengths": [1]}`)
	assert.ErrorIs(t, err, counsellor.ErrMalformedPayload)
	assert.Equal(t, counsellor.DocumentAnalysis{}, partial)
}
