package handlers

import (
	"recruiter/internal/app"
	candidateController "recruiter/internal/controllers/candidate"
	"recruiter/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type CampaignHandler struct {
	Handler
	controller *candidateController.Controller
}

func NewCampaignHandler(app *app.App, router fiber.Router) *CampaignHandler {
	log := logger.New("handlers").File("campaign_handler")
	return &CampaignHandler{
		controller: app.CandidateController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *CampaignHandler) Register() {
	campaigns := h.router.Group("/campaigns")
	campaigns.Post("/:id/apply", h.apply)
	campaigns.Post("/:id/sweep", h.sweep)
	campaigns.Get("/:id/export", h.export)
}

// apply is the universal entry link: anyone may submit a first-stage
// application while the campaign is active.
func (h *CampaignHandler) apply(c *fiber.Ctx) error {
	log := h.log.Function("apply")

	var request candidateController.ApplicationRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse application request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse application request"})
	}

	candidate, result, err := h.controller.Apply(c.Context(), c.Params("id"), &request)
	if err != nil {
		return fail(c, err)
	}

	response := fiber.Map{
		"message":   "success",
		"candidate": candidate,
		"status":    result.Status,
	}
	if result.NotifyErr != nil {
		response["warning"] = "notification delivery failed"
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *CampaignHandler) sweep(c *fiber.Ctx) error {
	result, err := h.controller.Sweep(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "result": result})
}

func (h *CampaignHandler) export(c *fiber.Ctx) error {
	data, err := h.controller.ExportCampaign(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="candidates.csv"`)
	return c.Send(data)
}
