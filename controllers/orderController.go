package controllers

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/Darshit9241/billing-webiste-sub000/billing"
	"github.com/Darshit9241/billing-webiste-sub000/export"
	"github.com/Darshit9241/billing-webiste-sub000/middlewares"
	"github.com/Darshit9241/billing-webiste-sub000/search"
	"github.com/Darshit9241/billing-webiste-sub000/services"
)

type OrderController struct {
	svc *services.OrderService
	// bcrypt hash guarding DeleteAllOrders; empty disables it
	bulkDeleteHash []byte
}

func NewOrderController(svc *services.OrderService, bulkDeletePasswordHash string) *OrderController {
	return &OrderController{svc: svc, bulkDeleteHash: []byte(bulkDeletePasswordHash)}
}

type mergeRequest struct {
	IDs   []string           `json:"ids" validate:"required,min=2,dive,required"`
	Scope billing.MergeScope `json:"scope" validate:"omitempty,oneof=list order"`
}

type bulkDeleteRequest struct {
	Password string `json:"password" validate:"required"`
}

func parseCriteria(c *fiber.Ctx) (search.Criteria, error) {
	q := url.Values{}
	for k, v := range c.Queries() {
		q.Set(k, v)
	}
	return search.ParseCriteria(q)
}

// GetOrders lists the orders matching the query-string filters.
func (h *OrderController) GetOrders(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	res, err := h.svc.List(c.UserContext(), criteria)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// ExportOrders downloads the filtered collection as JSON or CSV.
func (h *OrderController) ExportOrders(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.svc.Export(c.UserContext(), criteria, format, &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, format.Filename(h.svc.Now())))
	return c.Send(buf.Bytes())
}

func (h *OrderController) CreateOrder(c *fiber.Ctx) error {
	var in billing.OrderInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	o, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderController) GetOrder(c *fiber.Ctx) error {
	o, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(o)
}

// UpdateOrder applies edit-form fields (client info, type, bill mode, date).
func (h *OrderController) UpdateOrder(c *fiber.Ctx) error {
	var patch billing.DetailsPatch
	if err := middlewares.BindAndValidate(c, &patch); err != nil {
		return err
	}
	o, err := h.svc.UpdateDetails(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(o)
}

func (h *OrderController) DeleteOrder(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAllOrders wipes the collection after checking the bulk-delete password.
func (h *OrderController) DeleteAllOrders(c *fiber.Ctx) error {
	if len(h.bulkDeleteHash) == 0 {
		return fiber.NewError(fiber.StatusForbidden, "bulk delete is disabled")
	}
	var in bulkDeleteRequest
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword(h.bulkDeleteHash, []byte(in.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "incorrect password")
	}
	deleted, err := h.svc.DeleteAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func (h *OrderController) MergeOrders(c *fiber.Ctx) error {
	var in mergeRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(in.IDs) < 2 {
		return billing.ErrTooFewOrders
	}
	if err := middlewares.ValidateStruct(&in); err != nil {
		return err
	}
	scope := in.Scope
	if scope == "" {
		scope = billing.ScopeList
	}
	o, err := h.svc.Merge(c.UserContext(), in.IDs, scope)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

// AppendProducts is the "add to existing order" flow.
func (h *OrderController) AppendProducts(c *fiber.Ctx) error {
	var in billing.AppendInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	o, err := h.svc.AppendProducts(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(o)
}

func (h *OrderController) ClearPayment(c *fiber.Ctx) error {
	o, err := h.svc.ClearPayment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(o)
}
