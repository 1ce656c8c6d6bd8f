package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Darshit9241/billing-webiste-sub000/billing"
	"github.com/Darshit9241/billing-webiste-sub000/database"
	"github.com/Darshit9241/billing-webiste-sub000/export"
	"github.com/Darshit9241/billing-webiste-sub000/models"
	"github.com/Darshit9241/billing-webiste-sub000/search"
	"github.com/Darshit9241/billing-webiste-sub000/utils"
)

var detailColumns = map[string]string{
	"clientName":    "client_name",
	"clientAddress": "client_address",
	"clientPhone":   "client_phone",
	"clientGst":     "client_gst",
	"orderStatus":   "order_status",
	"billMode":      "bill_mode",
	"orderDate":     "order_date",
}

type OrderServiceConfig struct {
	Location          *time.Location
	Now               func() time.Time
	DeleteConcurrency int
}

// OrderService runs the billing rules around the order store. Inputs are
// validated and the new record is built before any write.
type OrderService struct {
	store       database.OrderStore
	engine      search.Engine
	now         func() time.Time
	concurrency int
}

func NewOrderService(store database.OrderStore, cfg OrderServiceConfig) *OrderService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DeleteConcurrency <= 0 {
		cfg.DeleteConcurrency = 8
	}
	return &OrderService{
		store:       store,
		engine:      search.Engine{Location: cfg.Location, Now: cfg.Now},
		now:         cfg.Now,
		concurrency: cfg.DeleteConcurrency,
	}
}

// ListResult is one dashboard view.
type ListResult struct {
	Orders  []models.Order  `json:"orders"`
	Summary billing.Summary `json:"summary"`
	Query   string          `json:"query"`
}

func (s *OrderService) List(ctx context.Context, c search.Criteria) (*ListResult, error) {
	orders, err := s.store.FetchAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch orders")
		return nil, err
	}
	warnDrift(orders)

	visible := s.engine.Filter(orders, c)
	return &ListResult{
		Orders:  visible,
		Summary: billing.Summarize(visible),
		Query:   c.Encode().Encode(),
	}, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &billing.ValidationError{Field: "id", Message: "enter an order id"}
	}
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	warnDrift([]models.Order{*o})
	return o, nil
}

func (s *OrderService) Create(ctx context.Context, in billing.OrderInput) (*models.Order, error) {
	o, err := billing.NewOrder(in, s.now())
	if err != nil {
		log.Warn().Err(err).Msg("order rejected")
		return nil, err
	}
	if err := s.store.Create(ctx, &o); err != nil {
		log.Error().Err(err).Str("client", o.ClientName).Msg("failed to create order")
		return nil, err
	}
	log.Info().Str("order_id", o.ID).Float64("grand_total", o.GrandTotal).Msg("order created")
	return &o, nil
}

// AppendProducts adds new product rows (and an optional incremental
// payment) to an existing order.
func (s *OrderService) AppendProducts(ctx context.Context, id string, in billing.AppendInput) (*models.Order, error) {
	return s.mutate(ctx, id, "append products", func(o models.Order) (models.Order, error) {
		return billing.AppendToOrder(o, in, s.now())
	})
}

// UpdateDetails edits client info, order type, bill mode and order date
// without rewriting products or payments.
func (s *OrderService) UpdateDetails(ctx context.Context, id string, patch billing.DetailsPatch) (*models.Order, error) {
	utils.NormalizePtrDTO(&patch)
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := billing.ApplyDetails(*existing, patch)
	if err != nil {
		return nil, err
	}
	fields := utils.UpdatesFromPtrDTO(&patch, detailColumns)
	if err := s.store.Patch(ctx, id, fields); err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("failed to update order details")
		return nil, err
	}
	return &updated, nil
}

func (s *OrderService) AddProduct(ctx context.Context, id string, in billing.ProductInput) (*models.Order, error) {
	return s.mutate(ctx, id, "add product", func(o models.Order) (models.Order, error) {
		return billing.AddProduct(o, in, s.now())
	})
}

func (s *OrderService) EditProduct(ctx context.Context, id string, index int, in billing.ProductInput) (*models.Order, error) {
	return s.mutate(ctx, id, "edit product", func(o models.Order) (models.Order, error) {
		return billing.EditProduct(o, index, in)
	})
}

func (s *OrderService) DeleteProduct(ctx context.Context, id string, index int) (*models.Order, error) {
	return s.mutate(ctx, id, "delete product", func(o models.Order) (models.Order, error) {
		return billing.DeleteProduct(o, index)
	})
}

func (s *OrderService) AddPayment(ctx context.Context, id string, in billing.PaymentInput) (*models.Order, error) {
	if err := billing.ValidatePaymentAmount(in.Amount.Float()); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "add payment", func(o models.Order) (models.Order, error) {
		return billing.AddPayment(o, in, s.now())
	})
}

func (s *OrderService) EditPayment(ctx context.Context, id string, index int, in billing.PaymentInput) (*models.Order, error) {
	if err := billing.ValidatePaymentAmount(in.Amount.Float()); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "edit payment", func(o models.Order) (models.Order, error) {
		return billing.EditPayment(o, index, in)
	})
}

func (s *OrderService) DeletePayment(ctx context.Context, id string, index int) (*models.Order, error) {
	return s.mutate(ctx, id, "delete payment", func(o models.Order) (models.Order, error) {
		return billing.DeletePayment(o, index)
	})
}

// ClearPayment marks the order as fully paid.
func (s *OrderService) ClearPayment(ctx context.Context, id string) (*models.Order, error) {
	return s.mutate(ctx, id, "clear payment", func(o models.Order) (models.Order, error) {
		return billing.ClearPayment(o, s.now()), nil
	})
}

// mutate loads the order, applies fn and writes the whole record back.
func (s *OrderService) mutate(ctx context.Context, id, action string, fn func(models.Order) (models.Order, error)) (*models.Order, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := fn(*existing)
	if err != nil {
		log.Warn().Err(err).Str("order_id", id).Str("action", action).Msg("order change rejected")
		return nil, err
	}
	if err := s.store.Update(ctx, &updated); err != nil {
		log.Error().Err(err).Str("order_id", id).Str("action", action).Msg("failed to save order")
		return nil, err
	}
	log.Debug().Str("order_id", id).Str("action", action).Msg("order updated")
	return &updated, nil
}

// Merge combines the orders with the given ids into a new merged record.
// The sources are left in place.
func (s *OrderService) Merge(ctx context.Context, ids []string, scope billing.MergeScope) (*models.Order, error) {
	ids = uniqueIDs(ids)
	if len(ids) < 2 {
		return nil, billing.ErrTooFewOrders
	}
	selected := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		o, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load order %s for merge: %w", id, err)
		}
		selected = append(selected, *o)
	}
	merged, err := billing.MergeOrders(selected, billing.MergeOptions{Scope: scope, Now: s.now()})
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &merged); err != nil {
		log.Error().Err(err).Strs("source_ids", ids).Msg("failed to save merged order")
		return nil, err
	}
	log.Info().Str("order_id", merged.ID).Strs("source_ids", ids).Msg("orders merged")
	return &merged, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if !errors.Is(err, database.ErrOrderNotFound) {
			log.Error().Err(err).Str("order_id", id).Msg("failed to delete order")
		}
		return err
	}
	log.Info().Str("order_id", id).Msg("order deleted")
	return nil
}

// DeleteAll deletes every order. Deletes run concurrently and independently;
// a failure does not stop the others and successful deletes are kept.
func (s *OrderService) DeleteAll(ctx context.Context) (int, error) {
	orders, err := s.store.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	var (
		mu     sync.Mutex
		failed []string
		errs   []error
	)
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, o := range orders {
		id := o.ID
		g.Go(func() error {
			if err := s.store.Delete(ctx, id); err != nil {
				log.Error().Err(err).Str("order_id", id).Msg("bulk delete failed for order")
				mu.Lock()
				failed = append(failed, id)
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	deleted := len(orders) - len(failed)
	if len(failed) > 0 {
		return deleted, &BulkDeleteError{Deleted: deleted, Failed: failed, Err: errors.Join(errs...)}
	}
	log.Info().Int("deleted", deleted).Msg("all orders deleted")
	return deleted, nil
}

// Export writes the orders matching c in format f.
func (s *OrderService) Export(ctx context.Context, c search.Criteria, f export.Format, w io.Writer) error {
	res, err := s.List(ctx, c)
	if err != nil {
		return err
	}
	return export.Write(w, f, res.Orders, s.engine.Location)
}

// Now is the service clock.
func (s *OrderService) Now() time.Time {
	return s.now()
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func warnDrift(orders []models.Order) {
	for _, o := range orders {
		if d := billing.PaymentDrift(o); d != 0 {
			log.Warn().Str("order_id", o.ID).Float64("amount_paid", o.AmountPaid).
				Float64("history_total", billing.HistoryTotal(o)).Float64("drift", d).
				Msg("amountPaid does not match payment history")
		}
	}
}
