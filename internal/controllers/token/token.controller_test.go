package tokenController

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "recruiter/internal/models"
	"recruiter/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokenRepo struct {
	tokens []AccessToken
	nextID int
}

func (r *memoryTokenRepo) Create(ctx context.Context, token *AccessToken) error {
	r.nextID++
	if token.ID == "" {
		token.ID = fmt.Sprintf("tok-%d", r.nextID)
	}
	r.tokens = append(r.tokens, *token)
	return nil
}

func (r *memoryTokenRepo) GetByToken(ctx context.Context, token string) (*AccessToken, error) {
	for i := range r.tokens {
		if r.tokens[i].Token == token {
			clone := r.tokens[i]
			return &clone, nil
		}
	}
	return nil, repositories.ErrTokenNotFound
}

func (r *memoryTokenRepo) Consume(ctx context.Context, token string, now time.Time) (*AccessToken, error) {
	for i := range r.tokens {
		if r.tokens[i].Token != token {
			continue
		}
		if r.tokens[i].IsUsed || r.tokens[i].ExpiresAt.Before(now) {
			return nil, repositories.ErrTokenConsumed
		}
		r.tokens[i].IsUsed = true
		r.tokens[i].StartedAt = &now
		clone := r.tokens[i]
		return &clone, nil
	}
	return nil, repositories.ErrTokenNotFound
}

func (r *memoryTokenRepo) MarkCompleted(ctx context.Context, tokenID string, now time.Time) error {
	for i := range r.tokens {
		if r.tokens[i].ID == tokenID {
			r.tokens[i].CompletedAt = &now
			return nil
		}
	}
	return repositories.ErrTokenNotFound
}

func (r *memoryTokenRepo) RevokeActive(ctx context.Context, candidateID string, stage Stage) error {
	for i := range r.tokens {
		if r.tokens[i].CandidateID == candidateID && r.tokens[i].Stage == stage {
			r.tokens[i].IsUsed = true
		}
	}
	return nil
}

type recordingMailer struct {
	to      []string
	subject []string
	body    []string
	err     error
}

func (m *recordingMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return nil
}

func testCandidate() *Candidate {
	return &Candidate{
		BaseUUIDModel: BaseUUIDModel{ID: "cand-1"},
		FirstName:     "Eva",
		LastName:      "Dvorak",
		Email:         "eva@example.com",
	}
}

func testCampaign() *Campaign {
	return &Campaign{
		Po3TokenExpiryDays:    3,
		InterviewEmailSubject: "Next step for {firstName}",
		InterviewEmailContent: "Open {url} before {expiry}.",
	}
}

func TestIssue(t *testing.T) {
	repo := &memoryTokenRepo{}
	mailer := &recordingMailer{}
	controller := New(repo, mailer, "https://jobs.example.com")
	controller.now = func() time.Time {
		return time.Date(2026, 8, 28, 9, 15, 0, 0, time.UTC)
	}

	record, notification, err := controller.Issue(context.Background(), testCandidate(), testCampaign(), StagePO3)
	require.NoError(t, err)

	assert.NotEmpty(t, record.Token)
	assert.GreaterOrEqual(t, len(record.Token), 40, "token must carry real entropy")
	assert.False(t, record.IsUsed)

	// Expiry lands at the very end of the last valid day.
	expected := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, expected, record.ExpiresAt)

	require.NotNil(t, notification)
	assert.Equal(t, "eva@example.com", notification.To)
	assert.Equal(t, "Next step for Eva", notification.Subject)
	assert.Contains(t, notification.Body, "https://jobs.example.com/tests/"+record.Token)
	assert.Contains(t, notification.Body, "31.08.2026 23:59")
}

func TestIssue_RevokesPreviousToken(t *testing.T) {
	repo := &memoryTokenRepo{}
	controller := New(repo, &recordingMailer{}, "https://jobs.example.com")

	first, _, err := controller.Issue(context.Background(), testCandidate(), testCampaign(), StagePO3)
	require.NoError(t, err)

	second, _, err := controller.Issue(context.Background(), testCandidate(), testCampaign(), StagePO3)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	// The first token is dead, the second consumable.
	_, err = controller.Consume(context.Background(), first.Token)
	assert.ErrorIs(t, err, repositories.ErrTokenConsumed)

	consumed, err := controller.Consume(context.Background(), second.Token)
	require.NoError(t, err)
	assert.True(t, consumed.IsUsed)
}

func TestIssue_RejectsNonTokenStage(t *testing.T) {
	controller := New(&memoryTokenRepo{}, &recordingMailer{}, "https://jobs.example.com")

	_, _, err := controller.Issue(context.Background(), testCandidate(), testCampaign(), StagePO1)
	assert.Error(t, err)
}

func TestConsume_SingleUse(t *testing.T) {
	repo := &memoryTokenRepo{}
	controller := New(repo, &recordingMailer{}, "https://jobs.example.com")

	record, _, err := controller.Issue(context.Background(), testCandidate(), testCampaign(), StagePO3)
	require.NoError(t, err)

	first, err := controller.Consume(context.Background(), record.Token)
	require.NoError(t, err)
	assert.NotNil(t, first.StartedAt)

	_, err = controller.Consume(context.Background(), record.Token)
	assert.ErrorIs(t, err, repositories.ErrTokenConsumed)
}

func TestConsume_Expired(t *testing.T) {
	repo := &memoryTokenRepo{}
	controller := New(repo, &recordingMailer{}, "https://jobs.example.com")

	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	controller.now = func() time.Time { return issuedAt }

	record, _, err := controller.Issue(context.Background(), testCandidate(), testCampaign(), StagePO3)
	require.NoError(t, err)

	// A week later the 3 day token is gone.
	controller.now = func() time.Time { return issuedAt.AddDate(0, 0, 7) }
	_, err = controller.Consume(context.Background(), record.Token)
	assert.ErrorIs(t, err, repositories.ErrTokenConsumed)
}

func TestConsume_Unknown(t *testing.T) {
	controller := New(&memoryTokenRepo{}, &recordingMailer{}, "https://jobs.example.com")

	_, err := controller.Consume(context.Background(), "never-issued")
	assert.ErrorIs(t, err, repositories.ErrTokenNotFound)
}

func TestNotify_WrapsFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("connection refused")}
	controller := New(&memoryTokenRepo{}, mailer, "https://jobs.example.com")

	err := controller.Notify(&Notification{
		CandidateID: "cand-1",
		Stage:       StagePO3,
		To:          "eva@example.com",
	})

	var notificationErr *NotificationError
	require.ErrorAs(t, err, &notificationErr)
	assert.Equal(t, "cand-1", notificationErr.CandidateID)
	assert.Equal(t, StagePO3, notificationErr.Stage)
}

func TestExpiryAt_EndOfDay(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		days int
	}{
		{"midday", time.Date(2026, 5, 10, 13, 45, 12, 0, time.UTC), 7},
		{"just before midnight", time.Date(2026, 5, 10, 23, 59, 0, 0, time.UTC), 1},
		{"first second of the day", time.Date(2026, 5, 10, 0, 0, 1, 0, time.UTC), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expiry := expiryAt(tt.now, tt.days)
			expectedDay := tt.now.AddDate(0, 0, tt.days)

			assert.Equal(t, expectedDay.Day(), expiry.Day())
			assert.Equal(t, 23, expiry.Hour())
			assert.Equal(t, 59, expiry.Minute())
			assert.Equal(t, 59, expiry.Second())
		})
	}
}
