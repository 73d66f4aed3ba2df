package handlers

import (
	"errors"
	"recruiter/internal/app"
	candidateController "recruiter/internal/controllers/candidate"
	"recruiter/internal/logger"
	"recruiter/internal/repositories"
	"recruiter/internal/services"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	log    logger.Logger
	router fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewCampaignHandler(app, api).Register()
	NewCandidateHandler(app, api).Register()
	NewTestHandler(app, api).Register()

	return nil
}

// statusFor maps domain sentinels to HTTP statuses. Anything unmapped is
// an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repositories.ErrTokenNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrTokenConsumed):
		return fiber.StatusGone
	case errors.Is(err, candidateController.ErrSubmissionClosed):
		return fiber.StatusGone
	case errors.Is(err, candidateController.ErrTimeLimitExceeded):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, candidateController.ErrCampaignInactive):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrCandidateBusy):
		return fiber.StatusConflict
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := "internal error"
	if status != fiber.StatusInternalServerError {
		message = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{"message": message})
}
