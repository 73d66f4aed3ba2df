package scoring

import (
	"testing"

	. "recruiter/internal/models"

	"github.com/stretchr/testify/assert"
)

func eqQuestion(id string, orderNumber int) Question {
	return Question{
		BaseUUIDModel: BaseUUIDModel{ID: id},
		AnswerType:    AnswerAHPoints,
		AlgorithmType: AlgorithmNone,
		OrderNumber:   orderNumber,
	}
}

func TestAggregateEQ_AllTraitsAlwaysPresent(t *testing.T) {
	scores := AggregateEQ(nil, nil)

	assert.Len(t, scores, len(EqTraits))
	for _, trait := range EqTraits {
		assert.Zero(t, scores[trait])
	}
}

func TestAggregateEQ_CollectsExpectedLetters(t *testing.T) {
	questions := []Question{eqQuestion("q1", 1)}
	answers := []Answer{
		{
			QuestionID: "q1",
			PointsByOption: PointsByOption{
				"a": 4, "b": 3, "c": 2, "d": 1,
			},
		},
	}

	scores := AggregateEQ(answers, questions)

	// Section 0 expects a for SA, b for SR, c for MO, d for EM.
	assert.Equal(t, 4.0, scores[TraitSelfAwareness])
	assert.Equal(t, 3.0, scores[TraitSelfRegulation])
	assert.Equal(t, 2.0, scores[TraitMotivation])
	assert.Equal(t, 1.0, scores[TraitEmpathy])
	// Letters e-h got no points.
	assert.Zero(t, scores[TraitSocialSkills])
	assert.Zero(t, scores[TraitStressTolerance])
}

func TestAggregateEQ_SumsAcrossSections(t *testing.T) {
	questions := []Question{eqQuestion("q1", 1), eqQuestion("q2", 2)}
	answers := []Answer{
		{QuestionID: "q1", PointsByOption: PointsByOption{"a": 5}},
		{QuestionID: "q2", PointsByOption: PointsByOption{"e": 3}},
	}

	scores := AggregateEQ(answers, questions)

	// SA expects a in section 0 and e in section 1.
	assert.Equal(t, 8.0, scores[TraitSelfAwareness])
}

func TestAggregateEQ_MissingSectionsContributeZero(t *testing.T) {
	questions := []Question{eqQuestion("q3", 3)}
	answers := []Answer{
		{QuestionID: "q3", PointsByOption: PointsByOption{"h": 6}},
	}

	scores := AggregateEQ(answers, questions)

	// Section 2 expects h for adaptability only.
	assert.Equal(t, 6.0, scores[TraitAdaptability])
	for _, trait := range EqTraits {
		if trait == TraitAdaptability {
			continue
		}
		assert.Zero(t, scores[trait], "trait %s", trait)
	}
}

func TestAggregateEQ_IgnoresUnknownQuestions(t *testing.T) {
	questions := []Question{eqQuestion("q1", 1)}
	answers := []Answer{
		{QuestionID: "unrelated", PointsByOption: PointsByOption{"a": 9}},
	}

	scores := AggregateEQ(answers, questions)
	assert.Zero(t, scores[TraitSelfAwareness])
}

func TestAggregateEQ_Deterministic(t *testing.T) {
	questions := []Question{eqQuestion("q1", 1), eqQuestion("q2", 2), eqQuestion("q3", 3)}
	answers := []Answer{
		{QuestionID: "q1", PointsByOption: PointsByOption{"a": 2, "b": 3, "g": 5}},
		{QuestionID: "q2", PointsByOption: PointsByOption{"c": 1, "d": 4, "h": 5}},
		{QuestionID: "q3", PointsByOption: PointsByOption{"e": 6, "f": 4}},
	}

	first := AggregateEQ(answers, questions)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AggregateEQ(answers, questions))
	}
}
