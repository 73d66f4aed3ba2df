package scoring

import (
	"context"
	"math"
	"recruiter/internal/logger"
	. "recruiter/internal/models"
	"recruiter/internal/oracle"
)

// Oracle is the external scorer for free-text answers.
type Oracle interface {
	Evaluate(ctx context.Context, questionText, answerText string, maxPoints int, rubric string) (oracle.Evaluation, error)
}

// Grader maps one answer and its question's grading configuration to a
// score in [0, question.Points]. Grading failures (oracle errors, malformed
// input) are logged and scored as 0 so one bad question never blocks a test.
type Grader struct {
	oracle Oracle
	log    logger.Logger
}

func NewGrader(oracle Oracle) *Grader {
	return &Grader{
		oracle: oracle,
		log:    logger.New("Grader"),
	}
}

// Grade returns the raw (unrounded) score and, for AI-evaluated answers, the
// oracle's explanation. Rounding happens only at persistence.
func (g *Grader) Grade(ctx context.Context, answer *Answer, question *Question) (float64, *string) {
	log := g.log.Function("Grade")

	if answer == nil || answer.Empty() {
		return 0, nil
	}

	points := float64(question.Points)
	params := question.AlgorithmParams

	switch question.AlgorithmType {
	case AlgorithmNone:
		// Explicit "not graded" marker.
		return 0, nil

	case AlgorithmExactMatch:
		if g.exactMatch(answer, question) {
			return points, nil
		}
		return 0, nil

	case AlgorithmRange:
		value, ok := answerValue(answer, question)
		if !ok {
			return 0, nil
		}
		min, okMin := paramValue(params.Min, question)
		max, okMax := paramValue(params.Max, question)
		if !okMin || !okMax {
			log.Warn("malformed range params", "questionID", question.ID)
			return 0, nil
		}
		if value >= min && value <= max {
			return points, nil
		}
		return 0, nil

	case AlgorithmLeftSided:
		value, ok := answerValue(answer, question)
		if !ok {
			return 0, nil
		}
		min, okMin := paramValue(params.Min, question)
		correct, okCorrect := paramValue(params.Correct, question)
		if !okMin || !okCorrect {
			log.Warn("malformed left-sided params", "questionID", question.ID)
			return 0, nil
		}
		return clamp(leftSided(value, min, correct, points), points), nil

	case AlgorithmRightSided:
		value, ok := answerValue(answer, question)
		if !ok {
			return 0, nil
		}
		max, okMax := paramValue(params.Max, question)
		correct, okCorrect := paramValue(params.Correct, question)
		if !okMax || !okCorrect {
			log.Warn("malformed right-sided params", "questionID", question.ID)
			return 0, nil
		}
		return clamp(rightSided(value, max, correct, points), points), nil

	case AlgorithmCenter:
		value, ok := answerValue(answer, question)
		if !ok {
			return 0, nil
		}
		min, okMin := paramValue(params.Min, question)
		max, okMax := paramValue(params.Max, question)
		correct, okCorrect := paramValue(params.Correct, question)
		if !okMin || !okMax || !okCorrect {
			log.Warn("malformed center params", "questionID", question.ID)
			return 0, nil
		}
		return clamp(center(value, min, max, correct, points), points), nil

	case AlgorithmEvaluationAI:
		return g.gradeByOracle(ctx, answer, question)
	}

	log.Warn("unknown algorithm type", "questionID", question.ID, "algorithmType", question.AlgorithmType)
	return 0, nil
}

func (g *Grader) gradeByOracle(ctx context.Context, answer *Answer, question *Question) (float64, *string) {
	log := g.log.Function("gradeByOracle")

	if question.AnswerType != AnswerText || answer.TextValue == nil {
		return 0, nil
	}

	evaluation, err := g.oracle.Evaluate(
		ctx,
		question.Text,
		*answer.TextValue,
		question.Points,
		question.AlgorithmParams.Rubric,
	)
	if err != nil {
		log.Er("oracle evaluation failed, scoring 0", err, "questionID", question.ID, "answerID", answer.ID)
		return 0, nil
	}

	if evaluation.Score < 0 || evaluation.Score > float64(question.Points) {
		log.Warn("oracle score out of bounds, scoring 0",
			"questionID", question.ID, "score", evaluation.Score, "points", question.Points)
		return 0, nil
	}

	explanation := evaluation.Explanation
	return evaluation.Score, &explanation
}

func (g *Grader) exactMatch(answer *Answer, question *Question) bool {
	correct := question.AlgorithmParams.Correct
	if correct == nil {
		return false
	}

	switch question.AnswerType {
	case AnswerText, AnswerABCDEF:
		given := answer.TextValue
		if question.AnswerType == AnswerABCDEF {
			given = answer.LetterValue
		}
		if given == nil {
			return false
		}
		return normalizeText(*given) == normalizeText(*correct)

	case AnswerBoolean:
		if answer.BoolValue == nil {
			return false
		}
		expected := normalizeText(*correct)
		return (*answer.BoolValue && (expected == "true" || expected == "1")) ||
			(!*answer.BoolValue && (expected == "false" || expected == "0"))

	case AnswerDate:
		if answer.DateValue == nil {
			return false
		}
		expected, ok := ParseDate(*correct)
		if !ok {
			return false
		}
		return dateToDays(*answer.DateValue) == dateToDays(expected)

	case AnswerScale, AnswerSalary:
		value, ok := answerValue(answer, question)
		if !ok {
			return false
		}
		expected, ok := ParseDecimal(*correct)
		if !ok {
			return false
		}
		return math.Abs(value-expected) < 1e-9
	}

	return false
}

// answerValue projects the answer onto the numeric axis its algorithm
// interpolates over. DATE answers use whole days since epoch.
func answerValue(answer *Answer, question *Question) (float64, bool) {
	switch question.AnswerType {
	case AnswerDate:
		if answer.DateValue != nil {
			return dateToDays(*answer.DateValue), true
		}
		if answer.TextValue != nil {
			if parsed, ok := ParseDate(*answer.TextValue); ok {
				return dateToDays(parsed), true
			}
		}
		return 0, false
	default:
		if answer.NumericValue != nil {
			return *answer.NumericValue, true
		}
		if answer.TextValue != nil {
			return ParseDecimal(*answer.TextValue)
		}
		return 0, false
	}
}

// paramValue parses an algorithm parameter on the same axis as answerValue.
func paramValue(raw *string, question *Question) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	if question.AnswerType == AnswerDate {
		parsed, ok := ParseDate(*raw)
		if !ok {
			return 0, false
		}
		return dateToDays(parsed), true
	}
	return ParseDecimal(*raw)
}

// leftSided awards nothing below min, everything at or above correct, and
// interpolates linearly between.
func leftSided(value, min, correct, points float64) float64 {
	if value >= correct {
		return points
	}
	if value < min || correct <= min {
		return 0
	}
	return points * (value - min) / (correct - min)
}

// rightSided mirrors leftSided: nothing above max, everything at or below
// correct.
func rightSided(value, max, correct, points float64) float64 {
	if value <= correct {
		return points
	}
	if value > max || max <= correct {
		return 0
	}
	return points * (max - value) / (max - correct)
}

// center peaks at correct and ramps to 0 at each boundary.
func center(value, min, max, correct, points float64) float64 {
	if value == correct {
		return points
	}
	if value <= min || value >= max {
		return 0
	}
	if value < correct {
		if correct <= min {
			return 0
		}
		return points * (value - min) / (correct - min)
	}
	if max <= correct {
		return 0
	}
	return points * (max - value) / (max - correct)
}

func clamp(score, points float64) float64 {
	if score < 0 {
		return 0
	}
	if score > points {
		return points
	}
	return score
}
