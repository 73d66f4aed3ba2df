package handlers

import (
	"recruiter/internal/app"
	candidateController "recruiter/internal/controllers/candidate"
	"recruiter/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type TestHandler struct {
	Handler
	controller *candidateController.Controller
}

func NewTestHandler(app *app.App, router fiber.Router) *TestHandler {
	log := logger.New("handlers").File("test_handler")
	return &TestHandler{
		controller: app.CandidateController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *TestHandler) Register() {
	h.router.Get("/tokens/:token", h.start)
	h.router.Post("/answers/:token", h.submit)
}

// start consumes the single-use token and hands the candidate their test.
// A second request with the same token gets 410.
func (h *TestHandler) start(c *fiber.Ctx) error {
	record, test, err := h.controller.StartTest(c.Context(), c.Params("token"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "success",
		"stage":     record.Stage,
		"expiresAt": record.ExpiresAt,
		"test":      test,
	})
}

type submitRequest struct {
	Answers []candidateController.AnswerSubmission `json:"answers"`
}

func (h *TestHandler) submit(c *fiber.Ctx) error {
	log := h.log.Function("submit")

	var request submitRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse answers", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse answers"})
	}

	result, err := h.controller.SubmitAnswers(c.Context(), c.Params("token"), request.Answers)
	if err != nil {
		return fail(c, err)
	}

	response := fiber.Map{
		"message": "success",
		"status":  result.Status,
	}
	if result.NotifyErr != nil {
		response["warning"] = "notification delivery failed"
	}

	return c.JSON(response)
}
