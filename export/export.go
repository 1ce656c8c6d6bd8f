package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Darshit9241/billing-webiste-sub000/billing"
	"github.com/Darshit9241/billing-webiste-sub000/models"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat defaults to JSON when s is empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Filename is the download name for an export taken at now.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("orders-%s.%s", now.Format("2006-01-02"), f)
}

var csvHeader = []string{
	"id", "clientName", "clientPhone", "clientGst", "orderStatus", "paymentStatus",
	"grandTotal", "amountPaid", "balanceDue", "date", "products", "merged",
}

// Write serializes orders in format f. Dates in CSV are rendered in loc.
func Write(w io.Writer, f Format, orders []models.Order, loc *time.Location) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, orders, loc)
	case FormatJSON, "":
		return WriteJSON(w, orders)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// WriteJSON writes the orders as an indented JSON array.
func WriteJSON(w io.Writer, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(orders)
}

// WriteCSV writes one row per order. Products are summarized as
// "name x count" pairs separated by "; ".
func WriteCSV(w io.Writer, orders []models.Order, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(csvRow(o, loc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(o models.Order, loc *time.Location) []string {
	items := make([]string, 0, len(o.Products))
	for _, p := range o.Products {
		items = append(items, fmt.Sprintf("%s x %s", p.Name, money(p.Count)))
	}
	return []string{
		textCell(o.ID),
		textCell(o.ClientName),
		textCell(o.ClientPhone),
		textCell(o.ClientGst),
		string(o.OrderStatus),
		string(billing.DerivePaymentStatus(o.AmountPaid, o.GrandTotal)),
		money(o.GrandTotal),
		money(o.AmountPaid),
		money(billing.ComputeBalanceDue(o.GrandTotal, o.AmountPaid)),
		o.EffectiveDate().Time(loc).Format("2006-01-02 15:04"),
		textCell(strings.Join(items, "; ")),
		strconv.FormatBool(o.Merged),
	}
}

// textCell prefixes free text that a spreadsheet would evaluate as a formula.
func textCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
