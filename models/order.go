package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentCleared PaymentStatus = "cleared"
)

type OrderStatus string

const (
	OrderSell      OrderStatus = "sell"
	OrderPurchased OrderStatus = "purchased"
)

// BillMode records how the order was authored.
type BillMode string

const (
	BillFull     BillMode = "full"
	BillHalf     BillMode = "half"
	BillExisting BillMode = "existing"
)

// Order is one billing document. Products and payment history are embedded
// JSON documents; grandTotal, amountPaid and paymentStatus are cached values
// kept in sync by the billing package.
type Order struct {
	ID            string `json:"id" gorm:"primaryKey;size:64"`
	ClientName    string `json:"clientName" gorm:"not null;index"`
	ClientAddress string `json:"clientAddress,omitempty"`
	ClientPhone   string `json:"clientPhone,omitempty"`
	ClientGst     string `json:"clientGst,omitempty"`

	Products   datatypes.JSONSlice[Product] `json:"products"`
	GrandTotal float64                      `json:"grandTotal" gorm:"type:numeric(12,2)"`

	// Payments rollup
	AmountPaid     float64                           `json:"amountPaid" gorm:"type:numeric(12,2)"`
	PaymentHistory datatypes.JSONSlice[PaymentEntry] `json:"paymentHistory"`
	PaymentStatus  PaymentStatus                     `json:"paymentStatus" gorm:"size:16;index"`

	OrderStatus OrderStatus `json:"orderStatus" gorm:"size:16;index"`
	Timestamp   Timestamp   `json:"timestamp" gorm:"not null;index"`
	OrderDate   Timestamp   `json:"orderDate,omitempty"`

	Merged     bool                        `json:"merged"`
	MergedFrom datatypes.JSONSlice[string] `json:"mergedFrom,omitempty"`
	BillMode   BillMode                    `json:"billMode,omitempty" gorm:"size:16"`

	UpdatedAt time.Time `json:"-"`
}

// EffectiveDate is orderDate when set, else the creation timestamp.
func (o Order) EffectiveDate() Timestamp {
	if !o.OrderDate.IsZero() {
		return o.OrderDate
	}
	return o.Timestamp
}

// Clone returns a copy whose slices do not alias o.
func (o Order) Clone() Order {
	out := o
	if o.Products != nil {
		out.Products = append(datatypes.JSONSlice[Product]{}, o.Products...)
	}
	if o.PaymentHistory != nil {
		out.PaymentHistory = append(datatypes.JSONSlice[PaymentEntry]{}, o.PaymentHistory...)
	}
	if o.MergedFrom != nil {
		out.MergedFrom = append(datatypes.JSONSlice[string]{}, o.MergedFrom...)
	}
	return out
}

// Product is a line item embedded in an order.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Count          float64   `json:"count"`
	Price          float64   `json:"price"`
	Discount       float64   `json:"discount,omitempty"`
	Subtotal       float64   `json:"subtotal"`
	DiscountAmount float64   `json:"discountAmount"`
	Total          float64   `json:"total"`
	Timestamp      Timestamp `json:"timestamp"`
}

// PaymentEntry is one partial payment.
type PaymentEntry struct {
	Amount float64   `json:"amount"`
	Date   Timestamp `json:"date"`
	Method string    `json:"method,omitempty"`
	Note   string    `json:"note,omitempty"`
}
