package evaluationController

import (
	"context"
	"errors"
	"math"
	tokenController "recruiter/internal/controllers/token"
	"recruiter/internal/logger"
	. "recruiter/internal/models"
	"recruiter/internal/repositories"
	"recruiter/internal/scoring"
	"recruiter/internal/services"
	"sync"
	"time"
)

// ScoreKind tags the outcome of scoring one stage.
type ScoreKind int

const (
	// ScoreNoAnswers: the stage has no recorded answers. Distinct from a
	// zero score; it suppresses any status transition.
	ScoreNoAnswers ScoreKind = iota
	// ScoreCritical: a critical question was answered incorrectly.
	ScoreCritical
	// ScoreScalar: a standard test graded to an integer total.
	ScoreScalar
	// ScoreEq: an AH_POINTS test aggregated to the eight trait scores.
	ScoreEq
)

// StageResult is the outcome of the stage score calculator for one stage.
type StageResult struct {
	Kind   ScoreKind
	Scalar int
	Eq     scoring.EqScores
}

// PassResult summarizes one evaluation pass over a candidate.
type PassResult struct {
	CandidateID    string
	PreviousStatus RecruitmentStatus
	Status         RecruitmentStatus
	TotalScore     *float64
	// NotifyErr is set when the pass committed but a notification email
	// failed. The status transition stands; the caller owns retries.
	NotifyErr error
}

// StatusChanged reports whether the pass moved the candidate.
func (r *PassResult) StatusChanged() bool {
	return r.PreviousStatus != r.Status
}

// SweepResult reports a batch sweep over a campaign. Per-candidate failures
// never abort the sweep for the others.
type SweepResult struct {
	CampaignID string            `json:"campaignId"`
	Processed  int               `json:"processed"`
	Advanced   int               `json:"advanced"`
	Skipped    int               `json:"skipped"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Controller is the single scoring and stage-progression engine. Every
// trigger (test submission, manual recalculation, batch sweep) resolves a
// candidate id and runs the same pass; the call sites stay thin adapters.
type Controller struct {
	candidateRepo repositories.CandidateRepository
	campaignRepo  repositories.CampaignRepository
	testRepo      repositories.TestRepository
	answerRepo    repositories.AnswerRepository
	tokens        *tokenController.Controller
	grader        *scoring.Grader
	tx            services.Transactor
	locker        services.CandidateLocker
	passTimeout   time.Duration
	sweepWorkers  int
	log           logger.Logger
}

func New(
	candidateRepo repositories.CandidateRepository,
	campaignRepo repositories.CampaignRepository,
	testRepo repositories.TestRepository,
	answerRepo repositories.AnswerRepository,
	tokens *tokenController.Controller,
	grader *scoring.Grader,
	tx services.Transactor,
	locker services.CandidateLocker,
	passTimeout time.Duration,
	sweepWorkers int,
) *Controller {
	if sweepWorkers < 1 {
		sweepWorkers = 1
	}
	return &Controller{
		candidateRepo: candidateRepo,
		campaignRepo:  campaignRepo,
		testRepo:      testRepo,
		answerRepo:    answerRepo,
		tokens:        tokens,
		grader:        grader,
		tx:            tx,
		locker:        locker,
		passTimeout:   passTimeout,
		sweepWorkers:  sweepWorkers,
		log:           logger.New("EvaluationController"),
	}
}

// Evaluate runs a submission-triggered pass: stages that already carry a
// score keep it, stages with fresh answers get scored, and the status
// machine advances accordingly.
func (c *Controller) Evaluate(ctx context.Context, candidateID string) (*PassResult, error) {
	return c.run(ctx, candidateID, false)
}

// Recalculate re-grades every stage that has answers and re-derives the
// status from scratch. Idempotent: unchanged inputs produce unchanged
// scores, an unchanged status and no token issuance. A previously rejected
// candidate whose re-grade now clears the threshold resumes forward from
// the rejected stage, derived from which score fields are set.
func (c *Controller) Recalculate(ctx context.Context, candidateID string) (*PassResult, error) {
	return c.run(ctx, candidateID, true)
}

// Sweep evaluates every non-terminal candidate of a campaign through a
// bounded worker pool. Candidates locked by a concurrent pass are skipped,
// not failed.
func (c *Controller) Sweep(ctx context.Context, campaignID string) (*SweepResult, error) {
	log := c.log.Function("Sweep")

	if _, err := c.campaignRepo.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}

	candidates, err := c.candidateRepo.GetPendingByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{
		CampaignID: campaignID,
		Errors:     make(map[string]string),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.sweepWorkers)

	for _, candidate := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(candidateID string) {
			defer wg.Done()
			defer func() { <-sem }()

			passResult, err := c.run(ctx, candidateID, false)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, services.ErrCandidateBusy):
				result.Skipped++
			case err != nil:
				result.Errors[candidateID] = err.Error()
			default:
				result.Processed++
				if passResult.StatusChanged() {
					result.Advanced++
				}
				if passResult.NotifyErr != nil {
					result.Errors[candidateID] = passResult.NotifyErr.Error()
				}
			}
		}(candidate.ID)
	}
	wg.Wait()

	log.Info("Sweep finished", "campaignID", campaignID,
		"processed", result.Processed, "advanced", result.Advanced,
		"skipped", result.Skipped, "failed", len(result.Errors))
	return result, nil
}

// run executes one serialized, transactional pass over a candidate:
// read the candidate+campaign snapshot once, score and transition against
// it, write the candidate once, then deliver any queued notification.
func (c *Controller) run(ctx context.Context, candidateID string, regrade bool) (*PassResult, error) {
	var result *PassResult
	var pending []*tokenController.Notification

	err := c.locker.WithLock(ctx, candidateID, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.passTimeout)
		defer cancel()

		return c.tx.Execute(ctx, func(txCtx context.Context) error {
			var err error
			result, pending, err = c.pass(txCtx, candidateID, regrade)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	// The transaction is committed; mail failures are reported, never
	// rolled back.
	for _, notification := range pending {
		if err := c.tokens.Notify(notification); err != nil {
			result.NotifyErr = errors.Join(result.NotifyErr, err)
		}
	}

	return result, nil
}

func (c *Controller) pass(ctx context.Context, candidateID string, regrade bool) (*PassResult, []*tokenController.Notification, error) {
	log := c.log.Function("pass")

	candidate, err := c.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, nil, err
	}

	previous := candidate.RecruitmentStatus
	if previous.Terminal() {
		return &PassResult{
			CandidateID:    candidateID,
			PreviousStatus: previous,
			Status:         previous,
			TotalScore:     candidate.TotalScore,
		}, nil, nil
	}

	campaign, err := c.campaignRepo.GetByID(ctx, candidate.CampaignID)
	if err != nil {
		return nil, nil, err
	}

	// Assume a full pass; the loop stops at the first stage that is still
	// waiting, rejects, or rejects critically.
	status := StatusPO4

stages:
	for _, stage := range PipelineStages {
		testID := campaign.TestID(stage)
		if testID == nil {
			continue
		}

		test, err := c.testRepo.GetByID(ctx, *testID)
		if err != nil {
			return nil, nil, err
		}

		stored := candidate.StageScore(stage)
		if stored != nil && !regrade {
			if stagePassed(test, *stored) {
				continue
			}
			status = StatusRejected
			break
		}

		result, err := c.scoreStage(ctx, candidate.ID, test, stage)
		if err != nil {
			return nil, nil, err
		}

		switch result.Kind {
		case ScoreNoAnswers:
			if stored != nil {
				// Regrade found a score but no answers; the stored score
				// stands.
				if stagePassed(test, *stored) {
					continue
				}
				status = StatusRejected
				break stages
			}
			// Not taken yet. The candidate waits here; no transition past
			// this point is possible.
			status = StatusFor(stage)
			break stages

		case ScoreCritical:
			candidate.SetStageScore(stage, 0)
			status = StatusRejectedCritical
			break stages

		case ScoreEq:
			// EQ stages pass through: the stage itself records 0 and the
			// trait vector seeds the follow-up evaluation stage.
			candidate.SetStageScore(stage, 0)
			if stage == StagePO2 && campaign.Po25TestID != nil {
				if err := c.seedBridgeAnswers(ctx, candidate.ID, *campaign.Po25TestID, result.Eq); err != nil {
					return nil, nil, err
				}
			}

		case ScoreScalar:
			candidate.SetStageScore(stage, result.Scalar)
			if !stagePassed(test, result.Scalar) {
				status = StatusRejected
				break stages
			}
		}
	}

	candidate.RecruitmentStatus = status
	candidate.TotalScore = scoring.Composite(candidate.ScoreMap(), campaign.WeightMap())

	// At most one token per pass: a token is minted only when the pass
	// newly parks the candidate at a token-gated stage. An unchanged
	// status (idempotent re-run) never re-issues or re-mails.
	var pending []*tokenController.Notification
	if status != previous && TokenStages[Stage(status)] {
		_, notification, err := c.tokens.Issue(ctx, candidate, campaign, Stage(status))
		if err != nil {
			return nil, nil, err
		}
		pending = append(pending, notification)
	}

	if err := c.candidateRepo.Update(ctx, candidate); err != nil {
		return nil, nil, err
	}

	if status != previous {
		log.Info("Candidate transitioned",
			"candidateID", candidateID, "from", previous, "to", status)
	}

	return &PassResult{
		CandidateID:    candidateID,
		PreviousStatus: previous,
		Status:         status,
		TotalScore:     candidate.TotalScore,
	}, pending, nil
}

// scoreStage is the stage score calculator: it loads the candidate's
// answers for the stage, detects the test shape (EQ vs. standard), grades,
// and persists per-answer scores for standard tests.
func (c *Controller) scoreStage(ctx context.Context, candidateID string, test *Test, stage Stage) (StageResult, error) {
	answers, err := c.answerRepo.GetByCandidateAndStage(ctx, candidateID, stage)
	if err != nil {
		return StageResult{}, err
	}

	questionByID := make(map[string]*Question, len(test.Questions))
	isEq := false
	for i := range test.Questions {
		questionByID[test.Questions[i].ID] = &test.Questions[i]
		if test.Questions[i].AnswerType == AnswerAHPoints {
			isEq = true
		}
	}

	matched := answers[:0:0]
	for _, answer := range answers {
		if _, ok := questionByID[answer.QuestionID]; ok {
			matched = append(matched, answer)
		}
	}

	if len(matched) == 0 {
		return StageResult{Kind: ScoreNoAnswers}, nil
	}

	if isEq {
		return StageResult{
			Kind: ScoreEq,
			Eq:   scoring.AggregateEQ(matched, test.Questions),
		}, nil
	}

	var total float64
	criticalHit := false
	for i := range matched {
		answer := &matched[i]
		question := questionByID[answer.QuestionID]

		raw, explanation := c.grader.Grade(ctx, answer, question)
		rounded := int(math.Round(raw))

		if err := c.answerRepo.UpdateScore(ctx, answer.ID, rounded, explanation); err != nil {
			return StageResult{}, err
		}

		total += raw
		if question.IsCritical && !answer.Empty() && rounded == 0 {
			criticalHit = true
		}
	}

	if criticalHit {
		return StageResult{Kind: ScoreCritical}, nil
	}

	return StageResult{
		Kind:   ScoreScalar,
		Scalar: int(math.Round(total)),
	}, nil
}

// seedBridgeAnswers turns an EQ trait vector into pre-filled numeric
// answers on the follow-up evaluation test. Each trait score lands on the
// question whose text equals the trait code. Idempotent: an already seeded
// stage is left alone.
func (c *Controller) seedBridgeAnswers(ctx context.Context, candidateID, evaluationTestID string, eq scoring.EqScores) error {
	log := c.log.Function("seedBridgeAnswers")

	existing, err := c.answerRepo.GetByCandidateAndStage(ctx, candidateID, StagePO25)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	test, err := c.testRepo.GetByID(ctx, evaluationTestID)
	if err != nil {
		return err
	}

	var seeded []Answer
	for _, question := range test.Questions {
		score, ok := eq[question.Text]
		if !ok {
			continue
		}
		value := score
		seeded = append(seeded, Answer{
			CandidateID:  candidateID,
			QuestionID:   question.ID,
			Stage:        StagePO25,
			NumericValue: &value,
		})
	}

	if len(seeded) == 0 {
		log.Warn("no evaluation questions matched trait codes",
			"candidateID", candidateID, "testID", evaluationTestID)
		return nil
	}

	return c.answerRepo.CreateBatch(ctx, seeded)
}

// stagePassed applies the threshold rule: a threshold of 0 auto-passes.
func stagePassed(test *Test, score int) bool {
	return score >= test.PassingThreshold
}
