package handlers

import (
	"recruiter/internal/app"
	candidateController "recruiter/internal/controllers/candidate"
	"recruiter/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type CandidateHandler struct {
	Handler
	controller *candidateController.Controller
}

func NewCandidateHandler(app *app.App, router fiber.Router) *CandidateHandler {
	log := logger.New("handlers").File("candidate_handler")
	return &CandidateHandler{
		controller: app.CandidateController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *CandidateHandler) Register() {
	candidates := h.router.Group("/candidates")
	candidates.Post("/:id/recalculate", h.recalculate)
}

// recalculate re-runs the whole pipeline for one candidate, typically
// after a test definition changed.
func (h *CandidateHandler) recalculate(c *fiber.Ctx) error {
	result, err := h.controller.Recalculate(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	response := fiber.Map{
		"message":        "success",
		"previousStatus": result.PreviousStatus,
		"status":         result.Status,
		"totalScore":     result.TotalScore,
	}
	if result.NotifyErr != nil {
		response["warning"] = "notification delivery failed"
	}

	return c.JSON(response)
}
