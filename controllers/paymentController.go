package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Darshit9241/billing-webiste-sub000/billing"
	"github.com/Darshit9241/billing-webiste-sub000/middlewares"
	"github.com/Darshit9241/billing-webiste-sub000/utils"
)

func (h *OrderController) CreatePayment(c *fiber.Ctx) error {
	var in billing.PaymentInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	o, err := h.svc.AddPayment(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderController) UpdatePayment(c *fiber.Ctx) error {
	var in billing.PaymentInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	o, err := h.svc.EditPayment(c.UserContext(), c.Params("id"), utils.ParseIndex(c.Params("index")), in)
	if err != nil {
		return err
	}
	return c.JSON(o)
}

func (h *OrderController) DeletePayment(c *fiber.Ctx) error {
	o, err := h.svc.DeletePayment(c.UserContext(), c.Params("id"), utils.ParseIndex(c.Params("index")))
	if err != nil {
		return err
	}
	return c.JSON(o)
}
