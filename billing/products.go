package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Darshit9241/billing-webiste-sub000/models"
	"github.com/Darshit9241/billing-webiste-sub000/utils"
)

// MaxQuantity bounds a single product row's count.
const MaxQuantity = 1_000_000

// ProductInput is one product row as entered in a form. Count may be
// fractional (weights) and is not rounded.
type ProductInput struct {
	ID       string          `json:"id"`
	Name     string          `json:"name" validate:"max=200"`
	Count    utils.FlexFloat `json:"count" validate:"gte=0,lte=1000000" normalize:"-"`
	Price    utils.FlexFloat `json:"price" validate:"gte=0,lte=9999999999.99"`
	Discount utils.FlexFloat `json:"discount" validate:"gte=0,lte=100"`
}

// ValidateProductInput rejects rows the order form would not accept.
// Half bills may omit the product name.
func ValidateProductInput(in ProductInput, mode models.BillMode) error {
	if mode != models.BillHalf && strings.TrimSpace(in.Name) == "" {
		return invalid("name", "product name is required")
	}
	if !(in.Count > 0) {
		return invalid("count", "quantity must be greater than zero")
	}
	if in.Count > MaxQuantity {
		return invalid("count", "quantity must not exceed %d", MaxQuantity)
	}
	if !(in.Price > 0) {
		return invalid("price", "price must be greater than zero")
	}
	if in.Price > utils.MaxMoney {
		return invalid("price", "price is too large")
	}
	if !(in.Discount >= 0 && in.Discount <= 100) {
		return invalid("discount", "discount must be between 0 and 100")
	}
	if ComputeProductTotal(in.Count.Float(), utils.Round2(in.Price.Float()), in.Discount.Float()) > utils.MaxMoney {
		return invalid("total", "product total is too large")
	}
	return nil
}

// BuildProduct turns a validated row into a product with computed totals.
func BuildProduct(in ProductInput, now time.Time) models.Product {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	p := models.Product{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Count:     in.Count.Float(),
		Price:     utils.Round2(in.Price.Float()),
		Discount:  utils.Round2(in.Discount.Float()),
		Timestamp: models.TimestampFromTime(now),
	}
	p.Subtotal, p.DiscountAmount, p.Total = ProductBreakdown(p.Count, p.Price, p.Discount)
	return p
}

// AddProduct appends a product and recalculates the order.
func AddProduct(o models.Order, in ProductInput, now time.Time) (models.Order, error) {
	if err := ValidateProductInput(in, o.BillMode); err != nil {
		return o, err
	}
	out := o.Clone()
	out.Products = append(out.Products, BuildProduct(in, now))
	out = ReconcileAfterProductChange(out)
	if err := ValidateTotals(out); err != nil {
		return o, err
	}
	return out, nil
}

// EditProduct replaces the product at index, keeping its id and creation time.
func EditProduct(o models.Order, index int, in ProductInput) (models.Order, error) {
	if index < 0 || index >= len(o.Products) {
		return o, ErrProductNotFound
	}
	if err := ValidateProductInput(in, o.BillMode); err != nil {
		return o, err
	}
	out := o.Clone()
	prev := out.Products[index]
	in.ID = prev.ID
	p := BuildProduct(in, prev.Timestamp.Time(time.UTC))
	out.Products[index] = p
	out = ReconcileAfterProductChange(out)
	if err := ValidateTotals(out); err != nil {
		return o, err
	}
	return out, nil
}

// DeleteProduct removes the product at index.
func DeleteProduct(o models.Order, index int) (models.Order, error) {
	if index < 0 || index >= len(o.Products) {
		return o, ErrProductNotFound
	}
	out := o.Clone()
	out.Products = append(out.Products[:index], out.Products[index+1:]...)
	return ReconcileAfterProductChange(out), nil
}

// ReconcileAfterProductChange recomputes the grand total and re-derives
// amountPaid and status. A total below what was already collected clamps
// amountPaid down to the new total (or to 0 when nothing is left to bill).
func ReconcileAfterProductChange(o models.Order) models.Order {
	o.GrandTotal = ComputeGrandTotal(o.Products)
	switch {
	case o.GrandTotal < o.AmountPaid:
		if len(o.Products) == 0 || o.GrandTotal == 0 {
			o.AmountPaid = 0
			o.PaymentStatus = models.PaymentPending
		} else {
			o.AmountPaid = o.GrandTotal
			o.PaymentStatus = models.PaymentCleared
		}
	case o.GrandTotal == o.AmountPaid && o.GrandTotal > 0:
		o.PaymentStatus = models.PaymentCleared
	default:
		o.PaymentStatus = models.PaymentPending
	}
	return o
}
