package tokenController

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"recruiter/internal/logger"
	. "recruiter/internal/models"
	"recruiter/internal/repositories"
	"recruiter/internal/services"
	"time"
)

const tokenEntropyBytes = 32

// NotificationError reports a mail delivery failure after the token and
// status writes already committed. The transition stands; the caller owns
// retry policy.
type NotificationError struct {
	CandidateID string
	Stage       Stage
	Err         error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to notify candidate %s for stage %s: %v", e.CandidateID, e.Stage, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Notification is a prepared email held until the surrounding transaction
// commits, so a rollback never leaves a candidate holding a dead link.
type Notification struct {
	CandidateID string
	Stage       Stage
	To          string
	Subject     string
	Body        string
}

type Controller struct {
	tokenRepo repositories.TokenRepository
	mailer    services.Mailer
	baseURL   string
	now       func() time.Time
	log       logger.Logger
}

func New(
	tokenRepo repositories.TokenRepository,
	mailer services.Mailer,
	baseURL string,
) *Controller {
	return &Controller{
		tokenRepo: tokenRepo,
		mailer:    mailer,
		baseURL:   baseURL,
		now:       time.Now,
		log:       logger.New("TokenController"),
	}
}

// Issue mints a single-use token for a stage the candidate just advanced
// into and prepares the notification email. The token row joins the
// caller's transaction; the email is returned for delivery after commit.
func (c *Controller) Issue(ctx context.Context, candidate *Candidate, campaign *Campaign, stage Stage) (*AccessToken, *Notification, error) {
	log := c.log.Function("Issue")

	if !TokenStages[stage] {
		return nil, nil, log.Error("stage does not take an access token", "stage", stage)
	}

	// A regenerated token must be the only live one.
	if err := c.tokenRepo.RevokeActive(ctx, candidate.ID, stage); err != nil {
		return nil, nil, err
	}

	tokenString, err := generateToken()
	if err != nil {
		return nil, nil, log.Err("failed to generate token", err)
	}

	record := &AccessToken{
		CandidateID: candidate.ID,
		Stage:       stage,
		Token:       tokenString,
		ExpiresAt:   expiryAt(c.now(), campaign.TokenExpiryDays(stage)),
		IsUsed:      false,
	}

	if err := c.tokenRepo.Create(ctx, record); err != nil {
		return nil, nil, err
	}

	notification := c.buildNotification(candidate, campaign, record)

	log.Info("Issued access token",
		"candidateID", candidate.ID, "stage", stage, "expiresAt", record.ExpiresAt)
	return record, notification, nil
}

// Notify delivers a prepared notification. Failures come back as a
// NotificationError so callers can report partial success.
func (c *Controller) Notify(notification *Notification) error {
	if err := c.mailer.Send(notification.To, notification.Subject, notification.Body); err != nil {
		return &NotificationError{
			CandidateID: notification.CandidateID,
			Stage:       notification.Stage,
			Err:         err,
		}
	}
	return nil
}

// Consume validates a presented token and marks it used in one guarded
// write. Reuse and expiry are rejected atomically with the mark-used
// update, so two racing requests cannot both start a test.
func (c *Controller) Consume(ctx context.Context, token string) (*AccessToken, error) {
	return c.tokenRepo.Consume(ctx, token, c.now())
}

// Lookup fetches a token without touching its state.
func (c *Controller) Lookup(ctx context.Context, token string) (*AccessToken, error) {
	return c.tokenRepo.GetByToken(ctx, token)
}

// Complete records when the candidate finished the stage the token opened.
func (c *Controller) Complete(ctx context.Context, tokenID string) error {
	return c.tokenRepo.MarkCompleted(ctx, tokenID, c.now())
}

func (c *Controller) buildNotification(candidate *Candidate, campaign *Campaign, record *AccessToken) *Notification {
	values := map[string]string{
		"firstName": candidate.FirstName,
		"lastName":  candidate.LastName,
		"stage":     string(record.Stage),
		"url":       fmt.Sprintf("%s/tests/%s", c.baseURL, record.Token),
		"expiry":    record.ExpiresAt.Format("02.01.2006 15:04"),
	}

	subject := campaign.InterviewEmailSubject
	if subject == "" {
		subject = "Your next recruitment step"
	}

	body := campaign.InterviewEmailContent
	if body == "" {
		body = "Hello {firstName},\n\nyour next test is ready: {url}\nThe link is valid until {expiry}.\n"
	}

	return &Notification{
		CandidateID: candidate.ID,
		Stage:       record.Stage,
		To:          candidate.Email,
		Subject:     services.RenderTemplate(subject, values),
		Body:        services.RenderTemplate(body, values),
	}
}

func generateToken() (string, error) {
	raw := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// expiryAt pushes the expiry to the very end of the last valid day, so a
// "3 day" token works for the whole of its third day.
func expiryAt(now time.Time, days int) time.Time {
	day := now.AddDate(0, 0, days)
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
}
