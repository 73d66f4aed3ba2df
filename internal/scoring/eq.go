package scoring

import (
	. "recruiter/internal/models"
)

// Trait codes for the eight EQ dimensions. PO2_5 bridge questions are
// matched to traits by question text, so these codes double as question
// texts on the follow-up evaluation test.
const (
	TraitSelfAwareness   = "SA"
	TraitSelfRegulation  = "SR"
	TraitMotivation      = "MO"
	TraitEmpathy         = "EM"
	TraitSocialSkills    = "SS"
	TraitAdaptability    = "AD"
	TraitOptimism        = "OP"
	TraitStressTolerance = "ST"
)

// EqTraits lists the traits in report order.
var EqTraits = []string{
	TraitSelfAwareness,
	TraitSelfRegulation,
	TraitMotivation,
	TraitEmpathy,
	TraitSocialSkills,
	TraitAdaptability,
	TraitOptimism,
	TraitStressTolerance,
}

// eqExpectedLetters maps (trait, section) to the option letter whose
// assigned points feed that trait. Sections are the AH_POINTS questions in
// order (OrderNumber - 1). An empty entry, or a section beyond a row's
// width, contributes nothing to the trait.
var eqExpectedLetters = map[string][]string{
	TraitSelfAwareness:   {"a", "e", "c", "g", "b", "f", "d"},
	TraitSelfRegulation:  {"b", "f", "d", "h", "c", "g", "a"},
	TraitMotivation:      {"c", "g", "a", "e", "d", "h", "b"},
	TraitEmpathy:         {"d", "h", "b", "f", "a", "e", "c"},
	TraitSocialSkills:    {"e", "a", "g", "c", "f", "b", ""},
	TraitAdaptability:    {"f", "b", "h", "d", "g", "", ""},
	TraitOptimism:        {"g", "c", "e", "a", "h", "d", ""},
	TraitStressTolerance: {"h", "d", "f", "b", "e", "", ""},
}

// EqScores holds one aggregate score per trait. All eight traits are always
// present, defaulting to 0.
type EqScores map[string]float64

// AggregateEQ folds a candidate's AH_POINTS answers into the eight trait
// scores. Each answer carries a points-per-option map; the trait collects
// the points the candidate put on its expected letter in each section.
// Pure function: same inputs always reproduce the same totals.
func AggregateEQ(answers []Answer, questions []Question) EqScores {
	sectionByQuestion := make(map[string]int, len(questions))
	for _, question := range questions {
		if question.AnswerType != AnswerAHPoints {
			continue
		}
		sectionByQuestion[question.ID] = question.OrderNumber - 1
	}

	scores := make(EqScores, len(EqTraits))
	for _, trait := range EqTraits {
		scores[trait] = 0
	}

	for _, answer := range answers {
		section, ok := sectionByQuestion[answer.QuestionID]
		if !ok || section < 0 || len(answer.PointsByOption) == 0 {
			continue
		}

		for _, trait := range EqTraits {
			expected := eqExpectedLetters[trait]
			if section >= len(expected) || expected[section] == "" {
				continue
			}
			// Missing keys contribute 0.
			scores[trait] += answer.PointsByOption[expected[section]]
		}
	}

	return scores
}
