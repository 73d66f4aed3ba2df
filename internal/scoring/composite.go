package scoring

import (
	"math"
	. "recruiter/internal/models"
)

// Composite combines stage scores into the candidate's weighted total.
//
// The numerator only accumulates stages that have been scored, while the
// denominator counts every stage with a positive weight whether scored or
// not. A candidate mid-pipeline therefore carries a conservative partial
// composite that grows as stages complete; the value is only "final" once
// all weighted stages are scored. Returns nil while no stage is scored, and
// 0.0 when no stage carries weight.
func Composite(scores map[Stage]int, weights map[Stage]int) *float64 {
	if len(scores) == 0 {
		return nil
	}

	var weighted float64
	var totalWeight float64

	for _, stage := range PipelineStages {
		weight := weights[stage]
		if weight <= 0 {
			continue
		}
		totalWeight += float64(weight)
		if score, ok := scores[stage]; ok {
			weighted += float64(score) * float64(weight)
		}
	}

	var composite float64
	if totalWeight == 0 {
		composite = 0.0
	} else {
		composite = math.Round(weighted/totalWeight*100) / 100
	}
	return &composite
}
