package models

// Stage identifies one assessment step of a campaign pipeline.
type Stage string

const (
	StagePO1  Stage = "PO1"
	StagePO2  Stage = "PO2"
	StagePO25 Stage = "PO2_5"
	StagePO3  Stage = "PO3"
	StagePO4  Stage = "PO4"
)

// PipelineStages lists the scored stages in evaluation order. PO4 is the
// terminal accept-eligible state and never carries a test of its own.
var PipelineStages = []Stage{StagePO1, StagePO2, StagePO25, StagePO3}

// TokenStages are the stages entered through a mailed single-use token.
// PO1 uses the universal campaign link, PO4 is terminal.
var TokenStages = map[Stage]bool{
	StagePO2:  true,
	StagePO25: true,
	StagePO3:  true,
}

// Next returns the stage following s in pipeline order, or PO4 when s is
// the last scored stage.
func (s Stage) Next() Stage {
	for i, stage := range PipelineStages {
		if stage == s {
			if i+1 < len(PipelineStages) {
				return PipelineStages[i+1]
			}
			return StagePO4
		}
	}
	return StagePO4
}

type RecruitmentStatus string

const (
	StatusPO1              RecruitmentStatus = "PO1"
	StatusPO2              RecruitmentStatus = "PO2"
	StatusPO25             RecruitmentStatus = "PO2_5"
	StatusPO3              RecruitmentStatus = "PO3"
	StatusPO4              RecruitmentStatus = "PO4"
	StatusRejected         RecruitmentStatus = "REJECTED"
	StatusRejectedCritical RecruitmentStatus = "REJECTED_CRITICAL"
	StatusAccepted         RecruitmentStatus = "ACCEPTED"
)

// Terminal reports whether no further stage evaluation can change the status.
// REJECTED is recoverable through recalculation and is therefore not terminal.
func (s RecruitmentStatus) Terminal() bool {
	return s == StatusRejectedCritical || s == StatusAccepted
}

// StatusFor maps a stage to the status a candidate holds while waiting on it.
func StatusFor(stage Stage) RecruitmentStatus {
	return RecruitmentStatus(stage)
}

type AnswerType string

const (
	AnswerText     AnswerType = "TEXT"
	AnswerBoolean  AnswerType = "BOOLEAN"
	AnswerScale    AnswerType = "SCALE"
	AnswerSalary   AnswerType = "SALARY"
	AnswerDate     AnswerType = "DATE"
	AnswerABCDEF   AnswerType = "ABCDEF"
	AnswerAHPoints AnswerType = "AH_POINTS"
)

type AlgorithmType string

const (
	AlgorithmNone         AlgorithmType = "NO_ALGORITHM"
	AlgorithmExactMatch   AlgorithmType = "EXACT_MATCH"
	AlgorithmRange        AlgorithmType = "RANGE"
	AlgorithmLeftSided    AlgorithmType = "LEFT_SIDED"
	AlgorithmRightSided   AlgorithmType = "RIGHT_SIDED"
	AlgorithmCenter       AlgorithmType = "CENTER"
	AlgorithmEvaluationAI AlgorithmType = "EVALUATION_BY_AI"
)
