package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dobosmarton/gaffer-app/app/models"
	"github.com/dobosmarton/gaffer-app/app/repository"
	"github.com/dobosmarton/gaffer-app/internal/pkg/usage"
	"github.com/dobosmarton/gaffer-app/internal/pkg/usercontext"
)

// UsageController serves quota information and upgrade interest registration
type UsageController struct {
	usage     *usage.Service
	interests repository.UpgradeInterestRepository
}

func NewUsageController(usageService *usage.Service, interests repository.UpgradeInterestRepository) *UsageController {
	return &UsageController{usage: usageService, interests: interests}
}

// HandleGetUsage returns the caller's plan and remaining monthly allowance
func (uc *UsageController) HandleGetUsage(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	info, err := uc.usage.GetInfo(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to load usage")
	}
	return c.JSON(info)
}

type upgradeInterestRequest struct {
	Email string `json:"email"`
}

// HandleRegisterUpgradeInterest records that the caller wants to hear about
// paid plans. Registering twice returns the existing entry.
func (uc *UsageController) HandleRegisterUpgradeInterest(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req upgradeInterestRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	interest := &models.UpgradeInterest{UserID: userID, Email: req.Email}
	if err := interest.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "A valid email is required")
	}

	registered, err := uc.interests.Register(userID, req.Email)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to register interest")
	}
	return c.Status(fiber.StatusCreated).JSON(registered)
}

// HandleGetUpgradeInterest reports whether the caller already registered
func (uc *UsageController) HandleGetUpgradeInterest(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	interest, err := uc.interests.Get(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to load interest")
	}
	if interest == nil {
		return c.JSON(fiber.Map{"registered": false})
	}
	return c.JSON(fiber.Map{"registered": true, "registered_at": interest.CreatedAt})
}
