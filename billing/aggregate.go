package billing

import (
	"github.com/shopspring/decimal"

	"github.com/Darshit9241/billing-webiste-sub000/models"
	"github.com/Darshit9241/billing-webiste-sub000/utils"
)

var hundred = decimal.NewFromInt(100)

// ProductBreakdown returns subtotal, discount amount and total for one line.
// The total is rounded to 2 decimals; discount is a percentage.
func ProductBreakdown(count, price, discountPct float64) (subtotal, discountAmount, total float64) {
	sub := decimal.NewFromFloat(count).Mul(decimal.NewFromFloat(price))
	disc := sub.Mul(decimal.NewFromFloat(discountPct)).Div(hundred)
	return sub.Round(2).InexactFloat64(),
		disc.Round(2).InexactFloat64(),
		sub.Sub(disc).Round(2).InexactFloat64()
}

// ComputeProductTotal is round2(count*price*(1-discount/100)).
func ComputeProductTotal(count, price, discountPct float64) float64 {
	_, _, total := ProductBreakdown(count, price, discountPct)
	return total
}

// ComputeGrandTotal sums the stored product totals.
func ComputeGrandTotal(products []models.Product) float64 {
	totals := make([]float64, 0, len(products))
	for _, p := range products {
		totals = append(totals, p.Total)
	}
	return utils.SumMoney(totals...)
}

// DerivePaymentStatus: cleared iff grandTotal > 0 and amountPaid >= grandTotal.
func DerivePaymentStatus(amountPaid, grandTotal float64) models.PaymentStatus {
	if grandTotal > 0 && amountPaid >= grandTotal {
		return models.PaymentCleared
	}
	return models.PaymentPending
}

// ComputeBalanceDue is signed: negative when the order is overpaid.
func ComputeBalanceDue(grandTotal, amountPaid float64) float64 {
	return utils.SubMoney(grandTotal, amountPaid)
}

// HistoryTotal sums the payment history amounts.
func HistoryTotal(o models.Order) float64 {
	amounts := make([]float64, 0, len(o.PaymentHistory))
	for _, p := range o.PaymentHistory {
		amounts = append(amounts, p.Amount)
	}
	return utils.SumMoney(amounts...)
}

// ValidateTotals rejects orders whose grand total or amount paid no longer
// fit the stored money columns.
func ValidateTotals(o models.Order) error {
	if o.GrandTotal > utils.MaxMoney {
		return invalid("grandTotal", "order total is too large")
	}
	if o.AmountPaid > utils.MaxMoney {
		return invalid("amountPaid", "amount paid is too large")
	}
	return nil
}

// PaymentDrift is amountPaid minus the history total. Zero means reconciled.
func PaymentDrift(o models.Order) float64 {
	return utils.SubMoney(o.AmountPaid, HistoryTotal(o))
}

// Summary aggregates a collection of orders for the dashboard header.
type Summary struct {
	Orders        int     `json:"orders"`
	Cleared       int     `json:"cleared"`
	Pending       int     `json:"pending"`
	GrandTotal    float64 `json:"grandTotal"`
	AmountPaid    float64 `json:"amountPaid"`
	PendingAmount float64 `json:"pendingAmount"`
}

// Summarize totals a collection. Overpaid orders contribute 0 to PendingAmount.
func Summarize(orders []models.Order) Summary {
	grand, paid, pending := decimal.Zero, decimal.Zero, decimal.Zero
	s := Summary{Orders: len(orders)}
	for _, o := range orders {
		grand = grand.Add(decimal.NewFromFloat(o.GrandTotal))
		paid = paid.Add(decimal.NewFromFloat(o.AmountPaid))
		if due := ComputeBalanceDue(o.GrandTotal, o.AmountPaid); due > 0 {
			pending = pending.Add(decimal.NewFromFloat(due))
		}
		if DerivePaymentStatus(o.AmountPaid, o.GrandTotal) == models.PaymentCleared {
			s.Cleared++
		} else {
			s.Pending++
		}
	}
	s.GrandTotal = grand.Round(2).InexactFloat64()
	s.AmountPaid = paid.Round(2).InexactFloat64()
	s.PendingAmount = pending.Round(2).InexactFloat64()
	return s
}
