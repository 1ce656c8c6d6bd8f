package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/Darshit9241/billing-webiste-sub000/models"
	"github.com/Darshit9241/billing-webiste-sub000/utils"
)

// MergeScope selects which dashboard flow a merge comes from.
// The two flows name the merged record differently.
type MergeScope string

const (
	// ScopeList keeps the base order's client name.
	ScopeList MergeScope = "list"
	// ScopeOrder prefixes the client name with MergedNamePrefix.
	ScopeOrder MergeScope = "order"
)

const MergedNamePrefix = "Merged: "

type MergeOptions struct {
	Scope MergeScope
	Now   time.Time
}

// MergeOrders combines the selected orders into a new record. The first
// selection provides every non-aggregated field. Products and payment
// histories are concatenated in selection order (history then sorted by
// date), totals are the sums of the stored totals. Sources are not modified.
func MergeOrders(selected []models.Order, opts MergeOptions) (models.Order, error) {
	if len(selected) < 2 {
		return models.Order{}, ErrTooFewOrders
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var (
		products []models.Product
		history  []models.PaymentEntry
		totals   = make([]float64, 0, len(selected))
		paid     = make([]float64, 0, len(selected))
		ids      = make([]string, 0, len(selected))
	)
	for _, o := range selected {
		products = append(products, o.Products...)
		history = append(history, o.PaymentHistory...)
		totals = append(totals, o.GrandTotal)
		paid = append(paid, o.AmountPaid)
		ids = append(ids, o.ID)
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})

	merged := selected[0]
	merged.Products = products
	merged.PaymentHistory = history
	merged.GrandTotal = utils.SumMoney(totals...)
	merged.AmountPaid = utils.SumMoney(paid...)
	merged.PaymentStatus = DerivePaymentStatus(merged.AmountPaid, merged.GrandTotal)

	merged.ID = fmt.Sprintf("merged_%d", now.UnixMilli())
	merged.Timestamp = models.TimestampFromTime(now)
	merged.Merged = true
	merged.MergedFrom = ids
	merged.UpdatedAt = time.Time{}
	if opts.Scope == ScopeOrder {
		merged.ClientName = MergedNamePrefix + merged.ClientName
	}
	if err := ValidateTotals(merged); err != nil {
		return models.Order{}, err
	}
	return merged, nil
}
