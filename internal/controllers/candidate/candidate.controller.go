package candidateController

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	evaluationController "recruiter/internal/controllers/evaluation"
	tokenController "recruiter/internal/controllers/token"
	"recruiter/internal/logger"
	. "recruiter/internal/models"
	"recruiter/internal/repositories"
	"recruiter/internal/scoring"
	"strconv"
	"time"
)

var (
	// ErrCampaignInactive rejects applications to paused campaigns.
	ErrCampaignInactive = errors.New("campaign is not active")
	// ErrSubmissionClosed rejects answers for an already completed token.
	ErrSubmissionClosed = errors.New("test was already submitted")
	// ErrTimeLimitExceeded rejects answers arriving after the test's time
	// limit ran out.
	ErrTimeLimitExceeded = errors.New("test time limit exceeded")
)

// ApplicationRequest is a universal-link PO1 application.
type ApplicationRequest struct {
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
	Phone     *string            `json:"phone"`
	Answers   []AnswerSubmission `json:"answers"`
}

// AnswerSubmission carries one raw answer. Numeric values travel as
// strings so comma decimal separators survive JSON.
type AnswerSubmission struct {
	QuestionID     string             `json:"questionId"`
	Text           *string            `json:"text"`
	Boolean        *bool              `json:"boolean"`
	Numeric        *string            `json:"numeric"`
	Date           *string            `json:"date"`
	Letter         *string            `json:"letter"`
	PointsByOption map[string]float64 `json:"pointsByOption"`
}

type Controller struct {
	candidateRepo repositories.CandidateRepository
	campaignRepo  repositories.CampaignRepository
	testRepo      repositories.TestRepository
	answerRepo    repositories.AnswerRepository
	tokens        *tokenController.Controller
	engine        *evaluationController.Controller
	log           logger.Logger
}

func New(
	candidateRepo repositories.CandidateRepository,
	campaignRepo repositories.CampaignRepository,
	testRepo repositories.TestRepository,
	answerRepo repositories.AnswerRepository,
	tokens *tokenController.Controller,
	engine *evaluationController.Controller,
) *Controller {
	return &Controller{
		candidateRepo: candidateRepo,
		campaignRepo:  campaignRepo,
		testRepo:      testRepo,
		answerRepo:    answerRepo,
		tokens:        tokens,
		engine:        engine,
		log:           logger.New("CandidateController"),
	}
}

// Apply handles a universal-link application: the candidate is created in
// PO1, the first-stage answers are stored, and an evaluation pass runs.
func (c *Controller) Apply(ctx context.Context, campaignID string, request *ApplicationRequest) (*Candidate, *evaluationController.PassResult, error) {
	log := c.log.Function("Apply")

	if request.Email == "" {
		return nil, nil, log.Error("email is required")
	}

	campaign, err := c.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, nil, err
	}
	if !campaign.IsActive {
		return nil, nil, ErrCampaignInactive
	}
	if campaign.Po1TestID == nil {
		return nil, nil, log.Error("campaign has no first-stage test", "campaignID", campaignID)
	}

	candidate := &Candidate{
		CampaignID:        campaignID,
		FirstName:         request.FirstName,
		LastName:          request.LastName,
		Email:             request.Email,
		Phone:             request.Phone,
		RecruitmentStatus: StatusPO1,
	}
	if err := c.candidateRepo.Create(ctx, candidate); err != nil {
		return nil, nil, err
	}

	if err := c.storeAnswers(ctx, candidate.ID, *campaign.Po1TestID, StagePO1, request.Answers); err != nil {
		return nil, nil, err
	}

	result, err := c.engine.Evaluate(ctx, candidate.ID)
	if err != nil {
		return nil, nil, err
	}

	return candidate, result, nil
}

// StartTest is the token consumer boundary: it validates and consumes the
// token in one atomic write and returns the test the candidate may take.
func (c *Controller) StartTest(ctx context.Context, token string) (*AccessToken, *Test, error) {
	record, err := c.tokens.Consume(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	candidate, err := c.candidateRepo.GetByID(ctx, record.CandidateID)
	if err != nil {
		return nil, nil, err
	}
	campaign, err := c.campaignRepo.GetByID(ctx, candidate.CampaignID)
	if err != nil {
		return nil, nil, err
	}

	testID := campaign.TestID(record.Stage)
	if testID == nil {
		return nil, nil, c.log.Function("StartTest").
			Error("no test configured for token stage", "stage", record.Stage)
	}
	test, err := c.testRepo.GetByID(ctx, *testID)
	if err != nil {
		return nil, nil, err
	}

	return record, test, nil
}

// SubmitAnswers accepts a token-gated stage submission, stores the
// answers, closes the token and runs an evaluation pass. A token not yet
// started is consumed on the spot.
func (c *Controller) SubmitAnswers(ctx context.Context, token string, answers []AnswerSubmission) (*evaluationController.PassResult, error) {
	record, err := c.tokens.Consume(ctx, token)
	if errors.Is(err, repositories.ErrTokenConsumed) {
		// Already started; submission is still open until completion.
		record, err = c.lookupOpenToken(ctx, token)
	}
	if err != nil {
		return nil, err
	}

	candidate, err := c.candidateRepo.GetByID(ctx, record.CandidateID)
	if err != nil {
		return nil, err
	}
	campaign, err := c.campaignRepo.GetByID(ctx, candidate.CampaignID)
	if err != nil {
		return nil, err
	}

	testID := campaign.TestID(record.Stage)
	if testID == nil {
		return nil, c.log.Function("SubmitAnswers").
			Error("no test configured for token stage", "stage", record.Stage)
	}

	test, err := c.testRepo.GetByID(ctx, *testID)
	if err != nil {
		return nil, err
	}
	if err := c.checkTimeLimit(record, test); err != nil {
		return nil, err
	}

	if err := c.storeAnswers(ctx, candidate.ID, test.ID, record.Stage, answers); err != nil {
		return nil, err
	}

	if err := c.tokens.Complete(ctx, record.ID); err != nil {
		return nil, err
	}

	return c.engine.Evaluate(ctx, candidate.ID)
}

// Recalculate re-runs the scoring engine for one candidate.
func (c *Controller) Recalculate(ctx context.Context, candidateID string) (*evaluationController.PassResult, error) {
	return c.engine.Recalculate(ctx, candidateID)
}

// Sweep runs the batch evaluation over a campaign.
func (c *Controller) Sweep(ctx context.Context, campaignID string) (*evaluationController.SweepResult, error) {
	return c.engine.Sweep(ctx, campaignID)
}

// ExportCampaign renders the campaign pipeline as CSV: one row per
// candidate with stage scores, composite and status.
func (c *Controller) ExportCampaign(ctx context.Context, campaignID string) ([]byte, error) {
	log := c.log.Function("ExportCampaign")

	if _, err := c.campaignRepo.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}

	candidates, err := c.candidateRepo.GetByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"email", "first_name", "last_name", "status", "po1_score", "po2_score", "po2_5_score", "po3_score", "total_score"}
	if err := writer.Write(header); err != nil {
		return nil, log.Err("failed to write csv header", err)
	}

	for _, candidate := range candidates {
		row := []string{
			candidate.Email,
			candidate.FirstName,
			candidate.LastName,
			string(candidate.RecruitmentStatus),
			formatScore(candidate.Po1Score),
			formatScore(candidate.Po2Score),
			formatScore(candidate.Po25Score),
			formatScore(candidate.Po3Score),
			formatTotal(candidate.TotalScore),
		}
		if err := writer.Write(row); err != nil {
			return nil, log.Err("failed to write csv row", err, "candidateID", candidate.ID)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, log.Err("failed to flush csv", err)
	}

	return buf.Bytes(), nil
}

func (c *Controller) lookupOpenToken(ctx context.Context, token string) (*AccessToken, error) {
	record, err := c.tokens.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if record.CompletedAt != nil {
		return nil, ErrSubmissionClosed
	}
	return record, nil
}

func (c *Controller) checkTimeLimit(record *AccessToken, test *Test) error {
	if test.TimeLimitMinutes <= 0 || record.StartedAt == nil {
		return nil
	}
	deadline := record.StartedAt.Add(time.Duration(test.TimeLimitMinutes) * time.Minute)
	if time.Now().After(deadline) {
		return ErrTimeLimitExceeded
	}
	return nil
}

// storeAnswers converts raw submissions into typed answer rows. Questions
// not on the test are dropped; unparsable numerics and dates are stored
// raw as text so the grader's tolerant parsing gets a chance.
func (c *Controller) storeAnswers(ctx context.Context, candidateID, testID string, stage Stage, submissions []AnswerSubmission) error {
	test, err := c.testRepo.GetByID(ctx, testID)
	if err != nil {
		return err
	}

	questionByID := make(map[string]*Question, len(test.Questions))
	for i := range test.Questions {
		questionByID[test.Questions[i].ID] = &test.Questions[i]
	}

	var answers []Answer
	for _, submission := range submissions {
		question, ok := questionByID[submission.QuestionID]
		if !ok {
			continue
		}

		answer := Answer{
			CandidateID: candidateID,
			QuestionID:  question.ID,
			Stage:       stage,
		}

		switch question.AnswerType {
		case AnswerText:
			answer.TextValue = submission.Text
		case AnswerBoolean:
			answer.BoolValue = submission.Boolean
		case AnswerScale, AnswerSalary:
			if submission.Numeric != nil {
				if value, ok := scoring.ParseDecimal(*submission.Numeric); ok {
					answer.NumericValue = &value
				} else {
					answer.TextValue = submission.Numeric
				}
			}
		case AnswerDate:
			if submission.Date != nil {
				if parsed, ok := scoring.ParseDate(*submission.Date); ok {
					answer.DateValue = &parsed
				} else {
					answer.TextValue = submission.Date
				}
			}
		case AnswerABCDEF:
			answer.LetterValue = submission.Letter
		case AnswerAHPoints:
			answer.PointsByOption = submission.PointsByOption
		}

		answers = append(answers, answer)
	}

	return c.answerRepo.CreateBatch(ctx, answers)
}

func formatScore(score *int) string {
	if score == nil {
		return ""
	}
	return strconv.Itoa(*score)
}

func formatTotal(total *float64) string {
	if total == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *total)
}
