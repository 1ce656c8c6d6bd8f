package search

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Darshit9241/billing-webiste-sub000/models"
)

var dayPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?$`)

// Engine filters and sorts an in-memory order collection.
type Engine struct {
	// Location defines calendar days for date ranges and DD/MM queries.
	Location *time.Location
	// Now supplies the default year for DD/MM queries.
	Now func() time.Time
}

func (e Engine) loc() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

func (e Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Filter returns the orders matching c, newest effective date first.
// Orders with equal dates keep their input order. The input is not modified.
func (e Engine) Filter(orders []models.Order, c Criteria) []models.Order {
	c = c.Normalized()
	preds := []func(models.Order) bool{mergedPredicate(c.Merged)}
	if p := statusPredicate(c.PaymentStatus); p != nil {
		preds = append(preds, p)
	}
	if p := typePredicate(c.OrderType); p != nil {
		preds = append(preds, p)
	}
	if p := e.rangePredicate(c.From, c.To); p != nil {
		preds = append(preds, p)
	}
	if c.Query != "" {
		preds = append(preds, e.queryPredicate(c.Query))
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if matchAll(o, preds) {
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Order) int {
		da, db := a.EffectiveDate(), b.EffectiveDate()
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})
	return out
}

func matchAll(o models.Order, preds []func(models.Order) bool) bool {
	for _, p := range preds {
		if !p(o) {
			return false
		}
	}
	return true
}

func mergedPredicate(mode string) func(models.Order) bool {
	only := mode == MergedOnly
	return func(o models.Order) bool { return o.Merged == only }
}

func statusPredicate(status string) func(models.Order) bool {
	switch status {
	case string(models.PaymentPending):
		return isPending
	case string(models.PaymentCleared):
		return isCleared
	}
	return nil
}

func typePredicate(kind string) func(models.Order) bool {
	switch kind {
	case string(models.OrderSell), string(models.OrderPurchased):
		return func(o models.Order) bool { return string(o.OrderStatus) == kind }
	}
	return nil
}

func isCleared(o models.Order) bool { return o.PaymentStatus == models.PaymentCleared }
func isPending(o models.Order) bool { return o.PaymentStatus != models.PaymentCleared }

// rangePredicate bounds are inclusive; to covers its whole day.
// Unparseable bounds are ignored.
func (e Engine) rangePredicate(from, to string) func(models.Order) bool {
	loc := e.loc()
	var lo, hi models.Timestamp
	var hasLo, hasHi bool
	if t, err := time.ParseInLocation(dateLayout, from, loc); err == nil {
		lo, hasLo = models.TimestampFromTime(t), true
	}
	if t, err := time.ParseInLocation(dateLayout, to, loc); err == nil {
		hi, hasHi = models.TimestampFromTime(endOfDay(t)), true
	}
	if !hasLo && !hasHi {
		return nil
	}
	return func(o models.Order) bool {
		d := o.EffectiveDate()
		if hasLo && d < lo {
			return false
		}
		if hasHi && d > hi {
			return false
		}
		return true
	}
}

// queryPredicate resolves the free-text box. Keywords win over dates,
// dates win over substring matching.
func (e Engine) queryPredicate(raw string) func(models.Order) bool {
	q := strings.ToLower(raw)
	switch q {
	case "pending":
		return isPending
	case "cleared", "paid":
		return isCleared
	case "sell":
		return func(o models.Order) bool { return o.OrderStatus == models.OrderSell }
	case "purchased", "purchase":
		return func(o models.Order) bool { return o.OrderStatus == models.OrderPurchased }
	}
	if day, ok := e.parseDay(raw); ok {
		lo := models.TimestampFromTime(day)
		hi := models.TimestampFromTime(endOfDay(day))
		return func(o models.Order) bool {
			d := o.EffectiveDate()
			return d >= lo && d <= hi
		}
	}
	return func(o models.Order) bool {
		return strings.Contains(strings.ToLower(o.ID), q) ||
			strings.Contains(strings.ToLower(o.ClientName), q) ||
			strings.Contains(strings.ToLower(o.ClientGst), q)
	}
}

// parseDay reads DD/MM or DD/MM/YYYY. Dates that do not exist (32/13,
// 30/02) are rejected so the query falls through to substring search.
func (e Engine) parseDay(s string) (time.Time, bool) {
	m := dayPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	loc := e.loc()
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := e.now().In(loc).Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Millisecond)
}
