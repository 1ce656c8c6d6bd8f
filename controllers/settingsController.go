package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Darshit9241/billing-webiste-sub000/middlewares"
	"github.com/Darshit9241/billing-webiste-sub000/services"
)

type SettingsController struct {
	svc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{svc: svc}
}

func (h *SettingsController) GetSettings(c *fiber.Ctx) error {
	s, err := h.svc.Get(c.UserContext(), middlewares.CallerID(c))
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	var in services.SettingsInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	s, err := h.svc.Update(c.UserContext(), middlewares.CallerID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(s)
}
