package candidateController

import (
	"context"
	"strings"
	"testing"
	"time"

	"recruiter/internal/logger"
	. "recruiter/internal/models"
	"recruiter/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTestRepo struct {
	test *Test
}

func (r *stubTestRepo) GetByID(ctx context.Context, id string) (*Test, error) {
	if r.test == nil || r.test.ID != id {
		return nil, repositories.ErrNotFound
	}
	return r.test, nil
}

func (r *stubTestRepo) Create(ctx context.Context, test *Test) error { return nil }
func (r *stubTestRepo) Update(ctx context.Context, test *Test) error { return nil }

type capturingAnswerRepo struct {
	created []Answer
}

func (r *capturingAnswerRepo) GetByCandidateAndStage(ctx context.Context, candidateID string, stage Stage) ([]Answer, error) {
	return nil, nil
}

func (r *capturingAnswerRepo) CreateBatch(ctx context.Context, answers []Answer) error {
	r.created = append(r.created, answers...)
	return nil
}

func (r *capturingAnswerRepo) UpdateScore(ctx context.Context, answerID string, score int, explanation *string) error {
	return nil
}

type stubCandidateRepo struct {
	candidates []*Candidate
}

func (r *stubCandidateRepo) GetByID(ctx context.Context, id string) (*Candidate, error) {
	for _, candidate := range r.candidates {
		if candidate.ID == id {
			return candidate, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *stubCandidateRepo) GetPendingByCampaign(ctx context.Context, campaignID string) ([]*Candidate, error) {
	return r.candidates, nil
}

func (r *stubCandidateRepo) GetByCampaign(ctx context.Context, campaignID string) ([]*Candidate, error) {
	return r.candidates, nil
}

func (r *stubCandidateRepo) Create(ctx context.Context, candidate *Candidate) error { return nil }
func (r *stubCandidateRepo) Update(ctx context.Context, candidate *Candidate) error { return nil }

type stubCampaignRepo struct {
	campaign *Campaign
}

func (r *stubCampaignRepo) GetByID(ctx context.Context, id string) (*Campaign, error) {
	if r.campaign == nil {
		return nil, repositories.ErrNotFound
	}
	return r.campaign, nil
}

func (r *stubCampaignRepo) Create(ctx context.Context, campaign *Campaign) error { return nil }
func (r *stubCampaignRepo) Update(ctx context.Context, campaign *Campaign) error { return nil }

func strPtr(s string) *string  { return &s }
func bPtr(b bool) *bool        { return &b }
func iPtr(i int) *int          { return &i }
func fPtr(f float64) *float64  { return &f }
func tPtr(t time.Time) *time.Time { return &t }

func submissionTest() *Test {
	return &Test{
		BaseUUIDModel: BaseUUIDModel{ID: "test-1"},
		Stage:         StagePO1,
		Questions: []Question{
			{BaseUUIDModel: BaseUUIDModel{ID: "q-text"}, AnswerType: AnswerText},
			{BaseUUIDModel: BaseUUIDModel{ID: "q-bool"}, AnswerType: AnswerBoolean},
			{BaseUUIDModel: BaseUUIDModel{ID: "q-scale"}, AnswerType: AnswerScale},
			{BaseUUIDModel: BaseUUIDModel{ID: "q-date"}, AnswerType: AnswerDate},
			{BaseUUIDModel: BaseUUIDModel{ID: "q-letter"}, AnswerType: AnswerABCDEF},
			{BaseUUIDModel: BaseUUIDModel{ID: "q-points"}, AnswerType: AnswerAHPoints},
		},
	}
}

func TestStoreAnswers_TypedConversion(t *testing.T) {
	answerRepo := &capturingAnswerRepo{}
	controller := &Controller{
		testRepo:   &stubTestRepo{test: submissionTest()},
		answerRepo: answerRepo,
		log:        logger.New("test"),
	}

	submissions := []AnswerSubmission{
		{QuestionID: "q-text", Text: strPtr("hello")},
		{QuestionID: "q-bool", Boolean: bPtr(true)},
		{QuestionID: "q-scale", Numeric: strPtr("3,5")},
		{QuestionID: "q-date", Date: strPtr("15.03.2026")},
		{QuestionID: "q-letter", Letter: strPtr("c")},
		{QuestionID: "q-points", PointsByOption: map[string]float64{"a": 4, "b": 6}},
		{QuestionID: "not-on-test", Text: strPtr("dropped")},
	}

	err := controller.storeAnswers(context.Background(), "cand-1", "test-1", StagePO1, submissions)
	require.NoError(t, err)

	require.Len(t, answerRepo.created, 6, "answers to unknown questions are dropped")

	byQuestion := make(map[string]Answer)
	for _, answer := range answerRepo.created {
		assert.Equal(t, "cand-1", answer.CandidateID)
		assert.Equal(t, StagePO1, answer.Stage)
		byQuestion[answer.QuestionID] = answer
	}

	assert.Equal(t, "hello", *byQuestion["q-text"].TextValue)
	assert.True(t, *byQuestion["q-bool"].BoolValue)
	assert.InDelta(t, 3.5, *byQuestion["q-scale"].NumericValue, 1e-9)
	require.NotNil(t, byQuestion["q-date"].DateValue)
	assert.Equal(t, 15, byQuestion["q-date"].DateValue.Day())
	assert.Equal(t, "c", *byQuestion["q-letter"].LetterValue)
	assert.Equal(t, 4.0, byQuestion["q-points"].PointsByOption["a"])
}

func TestStoreAnswers_UnparsableNumericKeptAsText(t *testing.T) {
	answerRepo := &capturingAnswerRepo{}
	controller := &Controller{
		testRepo:   &stubTestRepo{test: submissionTest()},
		answerRepo: answerRepo,
		log:        logger.New("test"),
	}

	submissions := []AnswerSubmission{
		{QuestionID: "q-scale", Numeric: strPtr("around fifty")},
	}

	err := controller.storeAnswers(context.Background(), "cand-1", "test-1", StagePO1, submissions)
	require.NoError(t, err)
	require.Len(t, answerRepo.created, 1)

	assert.Nil(t, answerRepo.created[0].NumericValue)
	require.NotNil(t, answerRepo.created[0].TextValue)
	assert.Equal(t, "around fifty", *answerRepo.created[0].TextValue)
}

func TestCheckTimeLimit(t *testing.T) {
	controller := &Controller{log: logger.New("test")}
	now := time.Now()

	timed := &Test{TimeLimitMinutes: 60}
	untimed := &Test{}

	tests := []struct {
		name     string
		token    *AccessToken
		test     *Test
		expected error
	}{
		{
			name:  "within the limit",
			token: &AccessToken{StartedAt: tPtr(now.Add(-30 * time.Minute))},
			test:  timed,
		},
		{
			name:     "past the limit",
			token:    &AccessToken{StartedAt: tPtr(now.Add(-90 * time.Minute))},
			test:     timed,
			expected: ErrTimeLimitExceeded,
		},
		{
			name:  "untimed test never expires",
			token: &AccessToken{StartedAt: tPtr(now.Add(-48 * time.Hour))},
			test:  untimed,
		},
		{
			name:  "no start time means no limit check",
			token: &AccessToken{},
			test:  timed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := controller.checkTimeLimit(tt.token, tt.test)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExportCampaign(t *testing.T) {
	campaign := &Campaign{BaseUUIDModel: BaseUUIDModel{ID: "camp-1"}, Name: "pipeline"}
	candidates := []*Candidate{
		{
			BaseUUIDModel:     BaseUUIDModel{ID: "cand-1"},
			CampaignID:        "camp-1",
			FirstName:         "Jan",
			LastName:          "Novak",
			Email:             "jan@example.com",
			RecruitmentStatus: StatusPO3,
			Po1Score:          iPtr(80),
			TotalScore:        fPtr(26.67),
		},
		{
			BaseUUIDModel:     BaseUUIDModel{ID: "cand-2"},
			CampaignID:        "camp-1",
			Email:             "eva@example.com",
			RecruitmentStatus: StatusPO1,
		},
	}

	controller := &Controller{
		campaignRepo:  &stubCampaignRepo{campaign: campaign},
		candidateRepo: &stubCandidateRepo{candidates: candidates},
		log:           logger.New("test"),
	}

	data, err := controller.ExportCampaign(context.Background(), "camp-1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "email,first_name,last_name,status,po1_score,po2_score,po2_5_score,po3_score,total_score", lines[0])
	assert.Equal(t, "jan@example.com,Jan,Novak,PO3,80,,,,26.67", lines[1])
	assert.Equal(t, "eva@example.com,,,PO1,,,,,", lines[2])
}

func TestExportCampaign_UnknownCampaign(t *testing.T) {
	controller := &Controller{
		campaignRepo:  &stubCampaignRepo{},
		candidateRepo: &stubCandidateRepo{},
		log:           logger.New("test"),
	}

	_, err := controller.ExportCampaign(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
