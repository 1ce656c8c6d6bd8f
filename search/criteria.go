package search

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MergedExclude = "exclude"
	MergedOnly    = "only"

	All = "all"

	dateLayout = "2006-01-02"
)

// Criteria is the dashboard filter state. Zero values mean "no filter",
// except Merged which defaults to hiding merged orders.
type Criteria struct {
	Merged        string `json:"merged" validate:"omitempty,oneof=exclude only"`
	PaymentStatus string `json:"payment" validate:"omitempty,oneof=all pending cleared"`
	OrderType     string `json:"type" validate:"omitempty,oneof=all sell purchased"`
	From          string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Query         string `json:"q" validate:"max=200"`
}

var validate = validator.New()

// Validate checks enum values and date formats.
func (c Criteria) Validate() error {
	return validate.Struct(c)
}

// Normalized fills defaults and trims free text.
func (c Criteria) Normalized() Criteria {
	c.Merged = strings.ToLower(strings.TrimSpace(c.Merged))
	if c.Merged == "" {
		c.Merged = MergedExclude
	}
	c.PaymentStatus = strings.ToLower(strings.TrimSpace(c.PaymentStatus))
	if c.PaymentStatus == "" {
		c.PaymentStatus = All
	}
	c.OrderType = strings.ToLower(strings.TrimSpace(c.OrderType))
	if c.OrderType == "" {
		c.OrderType = All
	}
	c.From = strings.TrimSpace(c.From)
	c.To = strings.TrimSpace(c.To)
	c.Query = strings.TrimSpace(c.Query)
	return c
}

// Encode writes the non-default parts of c as URL query values so a view
// can be bookmarked and restored with ParseCriteria.
func (c Criteria) Encode() url.Values {
	c = c.Normalized()
	v := url.Values{}
	if c.Merged != MergedExclude {
		v.Set("merged", c.Merged)
	}
	if c.PaymentStatus != All {
		v.Set("payment", c.PaymentStatus)
	}
	if c.OrderType != All {
		v.Set("type", c.OrderType)
	}
	if c.From != "" {
		v.Set("from", c.From)
	}
	if c.To != "" {
		v.Set("to", c.To)
	}
	if c.Query != "" {
		v.Set("q", c.Query)
	}
	return v
}

// ParseCriteria reads criteria from URL query values and validates them.
func ParseCriteria(v url.Values) (Criteria, error) {
	c := Criteria{
		Merged:        v.Get("merged"),
		PaymentStatus: v.Get("payment"),
		OrderType:     v.Get("type"),
		From:          v.Get("from"),
		To:            v.Get("to"),
		Query:         v.Get("q"),
	}.Normalized()
	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}
