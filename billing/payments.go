package billing

import (
	"strings"
	"time"

	"github.com/Darshit9241/billing-webiste-sub000/models"
	"github.com/Darshit9241/billing-webiste-sub000/utils"
)

// PaymentInput is a payment as entered in the payment form.
type PaymentInput struct {
	Amount utils.FlexFloat  `json:"amount" validate:"lte=9999999999.99"`
	Date   models.Timestamp `json:"date"`
	Method string           `json:"method" validate:"max=32"`
	Note   string           `json:"note" validate:"max=255"`
}

// ValidatePaymentAmount is the single guard for new and edited payments.
func ValidatePaymentAmount(amount float64) error {
	if !(amount > 0) || amount > utils.MaxMoney {
		return ErrInvalidAmount
	}
	return nil
}

// AddPayment appends a history entry and adds it to amountPaid.
func AddPayment(o models.Order, in PaymentInput, now time.Time) (models.Order, error) {
	amount := utils.Round2(in.Amount.Float())
	if err := ValidatePaymentAmount(amount); err != nil {
		return o, err
	}
	date := in.Date
	if date.IsZero() {
		date = models.TimestampFromTime(now)
	}
	out := o.Clone()
	out.PaymentHistory = append(out.PaymentHistory, models.PaymentEntry{
		Amount: amount,
		Date:   date,
		Method: strings.TrimSpace(in.Method),
		Note:   strings.TrimSpace(in.Note),
	})
	out.AmountPaid = utils.SumMoney(out.AmountPaid, amount)
	out.PaymentStatus = DerivePaymentStatus(out.AmountPaid, out.GrandTotal)
	if err := ValidateTotals(out); err != nil {
		return o, err
	}
	return out, nil
}

// EditPayment changes the entry at index; amountPaid moves by the difference.
func EditPayment(o models.Order, index int, in PaymentInput) (models.Order, error) {
	if index < 0 || index >= len(o.PaymentHistory) {
		return o, ErrPaymentNotFound
	}
	amount := utils.Round2(in.Amount.Float())
	if err := ValidatePaymentAmount(amount); err != nil {
		return o, err
	}
	out := o.Clone()
	entry := out.PaymentHistory[index]
	paid := utils.SumMoney(out.AmountPaid, -entry.Amount, amount)
	if paid < 0 {
		paid = 0
	}
	entry.Amount = amount
	if !in.Date.IsZero() {
		entry.Date = in.Date
	}
	if m := strings.TrimSpace(in.Method); m != "" {
		entry.Method = m
	}
	if n := strings.TrimSpace(in.Note); n != "" {
		entry.Note = n
	}
	out.PaymentHistory[index] = entry
	out.AmountPaid = paid
	out.PaymentStatus = DerivePaymentStatus(out.AmountPaid, out.GrandTotal)
	if err := ValidateTotals(out); err != nil {
		return o, err
	}
	return out, nil
}

// DeletePayment removes the entry at index; amountPaid never drops below 0.
func DeletePayment(o models.Order, index int) (models.Order, error) {
	if index < 0 || index >= len(o.PaymentHistory) {
		return o, ErrPaymentNotFound
	}
	out := o.Clone()
	removed := out.PaymentHistory[index]
	out.PaymentHistory = append(out.PaymentHistory[:index], out.PaymentHistory[index+1:]...)
	paid := utils.SubMoney(out.AmountPaid, removed.Amount)
	if paid < 0 {
		paid = 0
	}
	out.AmountPaid = paid
	out.PaymentStatus = DerivePaymentStatus(out.AmountPaid, out.GrandTotal)
	return out, nil
}
