package billing

import (
	"strings"
	"time"

	"github.com/Darshit9241/billing-webiste-sub000/models"
	"github.com/Darshit9241/billing-webiste-sub000/utils"
)

// OrderInput is the order-entry form: client info, the initial product set
// and an optional first payment.
type OrderInput struct {
	ClientName    string             `json:"clientName" validate:"required,max=200"`
	ClientAddress string             `json:"clientAddress" validate:"max=500"`
	ClientPhone   string             `json:"clientPhone" validate:"max=32"`
	ClientGst     string             `json:"clientGst" validate:"max=32"`
	Products      []ProductInput     `json:"products" validate:"required,min=1,dive"`
	AmountPaid    utils.FlexFloat    `json:"amountPaid" validate:"gte=0,lte=9999999999.99"`
	PaymentDate   models.Timestamp   `json:"paymentDate"`
	OrderStatus   models.OrderStatus `json:"orderStatus" validate:"omitempty,oneof=sell purchased"`
	BillMode      models.BillMode    `json:"billMode" validate:"omitempty,oneof=full half existing"`
	OrderDate     models.Timestamp   `json:"orderDate"`
}

// NewOrder builds an unsaved order from the entry form. The store assigns the id.
func NewOrder(in OrderInput, now time.Time) (models.Order, error) {
	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return models.Order{}, invalid("clientName", "client name is required")
	}
	if len(in.Products) == 0 {
		return models.Order{}, invalid("products", "add at least one product")
	}
	mode := in.BillMode
	if mode == "" {
		mode = models.BillFull
	}
	status := in.OrderStatus
	if status == "" {
		status = models.OrderSell
	}
	if err := validateOrderStatus(status); err != nil {
		return models.Order{}, err
	}
	if err := validateBillMode(mode); err != nil {
		return models.Order{}, err
	}
	if !(in.AmountPaid >= 0) || in.AmountPaid > utils.MaxMoney {
		return models.Order{}, ErrInvalidAmount
	}

	o := models.Order{
		ClientName:    name,
		ClientAddress: strings.TrimSpace(in.ClientAddress),
		ClientPhone:   strings.TrimSpace(in.ClientPhone),
		ClientGst:     strings.TrimSpace(in.ClientGst),
		OrderStatus:   status,
		BillMode:      mode,
		Timestamp:     models.TimestampFromTime(now),
		OrderDate:     in.OrderDate,
		Products:      make([]models.Product, 0, len(in.Products)),
	}
	for _, row := range in.Products {
		if err := ValidateProductInput(row, mode); err != nil {
			return models.Order{}, err
		}
		o.Products = append(o.Products, BuildProduct(row, now))
	}
	o.GrandTotal = ComputeGrandTotal(o.Products)

	if paid := in.AmountPaid.Float(); paid > 0 {
		date := in.PaymentDate
		if date.IsZero() {
			date = models.TimestampFromTime(now)
		}
		o.AmountPaid = utils.Round2(paid)
		o.PaymentHistory = []models.PaymentEntry{{Amount: o.AmountPaid, Date: date}}
	}
	o.PaymentStatus = DerivePaymentStatus(o.AmountPaid, o.GrandTotal)
	if err := ValidateTotals(o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// AppendInput is the "add to existing order" form: new product rows and the
// amount paid so far as now entered by the operator.
type AppendInput struct {
	Products    []ProductInput   `json:"products" validate:"required,min=1,dive"`
	AmountPaid  *utils.FlexFloat `json:"amountPaid" validate:"omitempty,gte=0,lte=9999999999.99"`
	PaymentDate models.Timestamp `json:"paymentDate"`
}

// AppendToOrder adds new product rows to an existing order. Rows whose id is
// already on the order are skipped. When the entered amount paid exceeds the
// stored one, the difference is recorded as a new payment entry.
func AppendToOrder(existing models.Order, in AppendInput, now time.Time) (models.Order, error) {
	if len(in.Products) == 0 {
		return existing, invalid("products", "add at least one product")
	}
	for _, row := range in.Products {
		if err := ValidateProductInput(row, existing.BillMode); err != nil {
			return existing, err
		}
	}

	out := existing.Clone()
	seen := make(map[string]struct{}, len(out.Products))
	for _, p := range out.Products {
		seen[p.ID] = struct{}{}
	}
	for _, row := range in.Products {
		if id := strings.TrimSpace(row.ID); id != "" {
			if _, dup := seen[id]; dup {
				continue
			}
		}
		p := BuildProduct(row, now)
		seen[p.ID] = struct{}{}
		out.Products = append(out.Products, p)
	}
	out.GrandTotal = ComputeGrandTotal(out.Products)

	if in.AmountPaid != nil {
		newPaid := utils.Round2(in.AmountPaid.Float())
		if !(newPaid >= 0) || newPaid > utils.MaxMoney {
			return existing, ErrInvalidAmount
		}
		if delta := utils.SubMoney(newPaid, existing.AmountPaid); delta > 0 {
			date := in.PaymentDate
			if date.IsZero() {
				date = models.TimestampFromTime(now)
			}
			out.PaymentHistory = append(out.PaymentHistory, models.PaymentEntry{Amount: delta, Date: date})
			out.AmountPaid = newPaid
		}
	}
	out.PaymentStatus = DerivePaymentStatus(out.AmountPaid, out.GrandTotal)
	if err := ValidateTotals(out); err != nil {
		return existing, err
	}
	return out, nil
}

// ClearPayment marks the order as fully paid. A positive outstanding balance
// is recorded as a payment entry so the history keeps matching amountPaid.
func ClearPayment(o models.Order, now time.Time) models.Order {
	out := o.Clone()
	if due := ComputeBalanceDue(out.GrandTotal, out.AmountPaid); due > 0 {
		out.PaymentHistory = append(out.PaymentHistory, models.PaymentEntry{
			Amount: due,
			Date:   models.TimestampFromTime(now),
			Note:   "cleared",
		})
	}
	out.AmountPaid = out.GrandTotal
	out.PaymentStatus = DerivePaymentStatus(out.AmountPaid, out.GrandTotal)
	return out
}

// DetailsPatch carries edit-form fields that are not derived from products
// or payments. Nil fields are left unchanged.
type DetailsPatch struct {
	ClientName    *string             `json:"clientName" validate:"omitempty,min=1,max=200"`
	ClientAddress *string             `json:"clientAddress" validate:"omitempty,max=500"`
	ClientPhone   *string             `json:"clientPhone" validate:"omitempty,max=32"`
	ClientGst     *string             `json:"clientGst" validate:"omitempty,max=32"`
	OrderStatus   *models.OrderStatus `json:"orderStatus" validate:"omitempty,oneof=sell purchased"`
	BillMode      *models.BillMode    `json:"billMode" validate:"omitempty,oneof=full half existing"`
	OrderDate     *models.Timestamp   `json:"orderDate"`
}

// ApplyDetails validates p and returns the order with p applied.
func ApplyDetails(o models.Order, p DetailsPatch) (models.Order, error) {
	out := o.Clone()
	if p.ClientName != nil {
		name := strings.TrimSpace(*p.ClientName)
		if name == "" {
			return o, invalid("clientName", "client name is required")
		}
		out.ClientName = name
	}
	if p.ClientAddress != nil {
		out.ClientAddress = strings.TrimSpace(*p.ClientAddress)
	}
	if p.ClientPhone != nil {
		out.ClientPhone = strings.TrimSpace(*p.ClientPhone)
	}
	if p.ClientGst != nil {
		out.ClientGst = strings.TrimSpace(*p.ClientGst)
	}
	if p.OrderStatus != nil {
		if err := validateOrderStatus(*p.OrderStatus); err != nil {
			return o, err
		}
		out.OrderStatus = *p.OrderStatus
	}
	if p.BillMode != nil {
		if err := validateBillMode(*p.BillMode); err != nil {
			return o, err
		}
		out.BillMode = *p.BillMode
	}
	if p.OrderDate != nil {
		out.OrderDate = *p.OrderDate
	}
	return out, nil
}

func validateOrderStatus(s models.OrderStatus) error {
	switch s {
	case models.OrderSell, models.OrderPurchased:
		return nil
	}
	return invalid("orderStatus", "unknown order status %q", s)
}

func validateBillMode(m models.BillMode) error {
	switch m {
	case models.BillFull, models.BillHalf, models.BillExisting:
		return nil
	}
	return invalid("billMode", "unknown bill mode %q", m)
}
