package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Darshit9241/billing-webiste-sub000/billing"
	"github.com/Darshit9241/billing-webiste-sub000/middlewares"
	"github.com/Darshit9241/billing-webiste-sub000/utils"
)

func (h *OrderController) AddProduct(c *fiber.Ctx) error {
	var in billing.ProductInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	o, err := h.svc.AddProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderController) UpdateProduct(c *fiber.Ctx) error {
	var in billing.ProductInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	o, err := h.svc.EditProduct(c.UserContext(), c.Params("id"), utils.ParseIndex(c.Params("index")), in)
	if err != nil {
		return err
	}
	return c.JSON(o)
}

func (h *OrderController) DeleteProduct(c *fiber.Ctx) error {
	o, err := h.svc.DeleteProduct(c.UserContext(), c.Params("id"), utils.ParseIndex(c.Params("index")))
	if err != nil {
		return err
	}
	return c.JSON(o)
}
