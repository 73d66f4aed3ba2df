package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestStageNext(t *testing.T) {
	assert.Equal(t, StagePO2, StagePO1.Next())
	assert.Equal(t, StagePO25, StagePO2.Next())
	assert.Equal(t, StagePO3, StagePO25.Next())
	assert.Equal(t, StagePO4, StagePO3.Next())
	assert.Equal(t, StagePO4, StagePO4.Next())
}

func TestRecruitmentStatusTerminal(t *testing.T) {
	assert.True(t, StatusRejectedCritical.Terminal())
	assert.True(t, StatusAccepted.Terminal())
	assert.False(t, StatusRejected.Terminal(), "plain rejection is recoverable")
	assert.False(t, StatusPO3.Terminal())
}

func TestNextPendingStage(t *testing.T) {
	po1 := "t1"
	po2 := "t2"
	po3 := "t3"
	campaign := &Campaign{
		Po1TestID: &po1,
		Po2TestID: &po2,
		Po3TestID: &po3,
		// PO2_5 intentionally unconfigured.
	}

	tests := []struct {
		name      string
		candidate Candidate
		expected  Stage
	}{
		{
			name:      "fresh candidate starts at PO1",
			candidate: Candidate{},
			expected:  StagePO1,
		},
		{
			name:      "scored PO1 resumes at PO2",
			candidate: Candidate{Po1Score: intPtr(80)},
			expected:  StagePO2,
		},
		{
			name:      "unconfigured stage is skipped",
			candidate: Candidate{Po1Score: intPtr(80), Po2Score: intPtr(0)},
			expected:  StagePO3,
		},
		{
			name: "all configured stages scored means PO4",
			candidate: Candidate{
				Po1Score: intPtr(80), Po2Score: intPtr(0), Po3Score: intPtr(70),
			},
			expected: StagePO4,
		},
		{
			name:      "a score of zero counts as evaluated",
			candidate: Candidate{Po1Score: intPtr(0)},
			expected:  StagePO2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.candidate.NextPendingStage(campaign))
		})
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name        string
		question    Question
		expectError bool
	}{
		{
			name:     "no algorithm needs nothing",
			question: Question{AlgorithmType: AlgorithmNone},
		},
		{
			name: "exact match needs correct",
			question: Question{
				AlgorithmType:   AlgorithmExactMatch,
				AlgorithmParams: AlgorithmParams{Correct: strPtr("yes")},
			},
		},
		{
			name:        "exact match without correct fails",
			question:    Question{AlgorithmType: AlgorithmExactMatch},
			expectError: true,
		},
		{
			name: "range needs both bounds",
			question: Question{
				AlgorithmType:   AlgorithmRange,
				AlgorithmParams: AlgorithmParams{Min: strPtr("1")},
			},
			expectError: true,
		},
		{
			name: "center needs min max and correct",
			question: Question{
				AlgorithmType: AlgorithmCenter,
				AlgorithmParams: AlgorithmParams{
					Min: strPtr("1"), Max: strPtr("10"), Correct: strPtr("7"),
				},
			},
		},
		{
			name: "left sided without correct fails",
			question: Question{
				AlgorithmType:   AlgorithmLeftSided,
				AlgorithmParams: AlgorithmParams{Min: strPtr("0")},
			},
			expectError: true,
		},
		{
			name: "ai evaluation only grades text",
			question: Question{
				AlgorithmType: AlgorithmEvaluationAI,
				AnswerType:    AnswerScale,
			},
			expectError: true,
		},
		{
			name:        "unknown algorithm fails",
			question:    Question{AlgorithmType: "MAGIC"},
			expectError: true,
		},
		{
			name: "negative points fail",
			question: Question{
				AlgorithmType:   AlgorithmExactMatch,
				AlgorithmParams: AlgorithmParams{Correct: strPtr("x")},
				Points:          -1,
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnswerEmpty(t *testing.T) {
	assert.True(t, (&Answer{}).Empty())
	assert.False(t, (&Answer{TextValue: strPtr("x")}).Empty())
	assert.False(t, (&Answer{PointsByOption: PointsByOption{"a": 1}}).Empty())
	assert.True(t, (&Answer{PointsByOption: PointsByOption{}}).Empty())
}

func TestPointsByOptionRoundTrip(t *testing.T) {
	original := PointsByOption{"a": 4, "h": 6.5}

	raw, err := original.Value()
	require.NoError(t, err)

	var restored PointsByOption
	require.NoError(t, restored.Scan(raw))
	assert.Equal(t, original, restored)

	var fromNil PointsByOption
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}

func TestAlgorithmParamsRoundTrip(t *testing.T) {
	original := AlgorithmParams{
		Min:     strPtr("1"),
		Max:     strPtr("10"),
		Correct: strPtr("7"),
		Rubric:  "be fair",
	}

	raw, err := original.Value()
	require.NoError(t, err)

	var restored AlgorithmParams
	require.NoError(t, restored.Scan(raw))
	assert.Equal(t, original, restored)
}
