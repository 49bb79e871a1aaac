package service

import (
	"context"
	"fmt"
	"time"

	"shopkart/internal/media"
	"shopkart/internal/model"
	"shopkart/internal/pricing"
	"shopkart/internal/repository"
	"shopkart/internal/saga"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// commitState tracks the progress of a single order-placement attempt.
// Failed is reachable from every step.
type commitState string

const (
	stateValidating   commitState = "validating"
	statePricing      commitState = "pricing"
	statePersisting   commitState = "persisting"
	stateDecrementing commitState = "decrementing"
	stateCommitted    commitState = "committed"
	stateFailed       commitState = "failed"
)

// orderService implements OrderService. It coordinates validation, pricing,
// persistence and the atomic per-item stock decrement, unwinding acquired
// side effects (uploaded media, decremented stock, the persisted order row)
// when a later step fails.
type orderService struct {
	orders    repository.OrderRepository
	inventory repository.InventoryRepository
	validator *CatalogValidator
	calc      *pricing.Calculator
	mediaSaga *saga.Saga
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	inventory repository.InventoryRepository,
	validator *CatalogValidator,
	calc *pricing.Calculator,
	mediaSaga *saga.Saga,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		inventory: inventory,
		validator: validator,
		calc:      calc,
		mediaSaga: mediaSaga,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder runs a placement attempt through validating, pricing,
// persisting and decrementing. Validation is an optimistic pre-check for
// fast feedback; the decrement is the authoritative stock check. The gap
// between the two is a designed race window closed only by the atomicity of
// the decrement itself.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.OrderRequest, attachments []media.File) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	// A client retry with the same key returns the already-committed order
	// instead of placing a duplicate.
	if req.IdempotencyKey != "" {
		existing, err := s.orders.FindByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if existing != nil {
			s.logger.Info().
				Str("order_id", existing.ID.String()).
				Str("idempotency_key", req.IdempotencyKey).
				Msg("duplicate order submission, returning committed order")
			return existing, nil
		}
	}

	attempt := s.logger.With().Str("customer_id", req.CustomerID).Logger()

	// Validating: no side effects yet, any failure is a clean rejection.
	attempt.Debug().Str("state", string(stateValidating)).Msg("order attempt")
	items, subtotal, err := s.validator.Validate(ctx, req.Items)
	if err != nil {
		return nil, s.fail(attempt, stateValidating, err)
	}

	// Pricing: the server-computed total is authoritative. A payment amount
	// that disagrees beyond tolerance must never produce an order.
	attempt.Debug().Str("state", string(statePricing)).Msg("order attempt")
	quote := s.calc.Quote(subtotal, req.ShippingAddress.Region)
	if !pricing.WithinTolerance(quote.Total, req.Payment.Amount) {
		return nil, s.fail(attempt, statePricing, model.NewPaymentAmountMismatch(quote.Total, req.Payment.Amount))
	}

	// Attachments are the first external side effect. From here on every
	// failure path must compensate them.
	var refs []model.MediaRef
	if len(attachments) > 0 {
		refs, err = s.mediaSaga.Acquire(ctx, attachments)
		if err != nil {
			return nil, s.fail(attempt, statePersisting, err)
		}
	}

	order := s.buildOrder(req, items, quote, refs)

	// Persisting: storage failure here only needs the media compensated;
	// no stock has moved yet.
	attempt.Debug().Str("state", string(statePersisting)).Str("order_id", order.ID.String()).Msg("order attempt")
	if err := s.orders.Insert(ctx, order); err != nil {
		s.compensateMedia(ctx, refs)
		attempt.Error().Err(err).Str("order_id", order.ID.String()).Msg("order persistence failed")
		return nil, s.fail(attempt, statePersisting, model.NewStorageFailure("failed to persist order"))
	}

	// Decrementing: items in submitted order, each an atomic conditional
	// update. Any refusal aborts the order and restores what already moved.
	attempt.Debug().Str("state", string(stateDecrementing)).Str("order_id", order.ID.String()).Msg("order attempt")
	for i, item := range order.Items {
		if err := s.inventory.Decrement(ctx, item.ProductID, item.Quantity); err != nil {
			if restoreErr := s.restoreDecremented(ctx, order.Items[:i]); restoreErr != nil {
				// Losing a re-increment is a data-integrity incident, not a
				// validation failure; it outranks the original error.
				return nil, s.fail(attempt, stateDecrementing, restoreErr)
			}
			if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
				attempt.Error().Err(delErr).Str("order_id", order.ID.String()).Msg("failed to delete aborted order")
			}
			s.compensateMedia(ctx, refs)
			return nil, s.fail(attempt, stateDecrementing, err)
		}
	}

	attempt.Info().
		Str("state", string(stateCommitted)).
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Float64("total_price", order.TotalPrice).
		Msg("order committed")

	return order, nil
}

// GetByID retrieves an order with its items, or nil when not found.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListByCustomer retrieves a page of a customer's orders with clamped paging.
func (s *orderService) ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]model.Order, error) {
	if customerID == "" {
		return nil, model.NewInvalidInput("customer ID is required")
	}

	page, limit = clampPaging(page, limit)

	orders, err := s.orders.FindByCustomer(ctx, customerID, page, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// buildOrder assembles the order document from validated inputs. Non-COD
// payments start in Processing and are marked paid.
func (s *orderService) buildOrder(req *model.OrderRequest, items []model.OrderItem, quote pricing.Quote, refs []model.MediaRef) *model.Order {
	now := time.Now()
	orderID := uuid.New()

	status := model.OrderStatusPending
	paid := false
	if req.Payment.Method != model.PaymentMethodCOD {
		status = model.OrderStatusProcessing
		paid = true
	}

	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = orderID
	}

	return &model.Order{
		ID:              orderID,
		CustomerID:      req.CustomerID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		Payment:         req.Payment,
		Status:          status,
		Paid:            paid,
		ShippingCost:    quote.Shipping,
		TaxAmount:       quote.Tax,
		TotalPrice:      quote.Total,
		Notes:           req.Notes,
		IdempotencyKey:  req.IdempotencyKey,
		Attachments:     refs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// restoreDecremented re-increments all items already decremented in this
// attempt, in reverse order. Inventory compensation is mandatory: a failed
// re-increment is surfaced as a StockRestoreFailure.
func (s *orderService) restoreDecremented(ctx context.Context, decremented []model.OrderItem) error {
	for i := len(decremented) - 1; i >= 0; i-- {
		item := decremented[i]
		if err := s.inventory.Increment(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error().
				Err(err).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("stock restore failed")
			return model.NewStockRestoreFailure(item.ProductID, item.Quantity)
		}
	}
	return nil
}

// compensateMedia deletes acquired attachment refs best-effort.
func (s *orderService) compensateMedia(ctx context.Context, refs []model.MediaRef) {
	if len(refs) == 0 {
		return
	}
	report := s.mediaSaga.Compensate(ctx, refs)
	if len(report.Failed) > 0 {
		s.logger.Warn().
			Int("attempted", len(report.Attempted)).
			Int("failed", len(report.Failed)).
			Msg("some order attachments could not be deleted")
	}
}

// fail logs the terminal transition and passes the error through.
func (s *orderService) fail(logger zerolog.Logger, from commitState, err error) error {
	logger.Warn().
		Str("state", string(stateFailed)).
		Str("failed_at", string(from)).
		Err(err).
		Msg("order attempt failed")
	return err
}

// validateOrderRequest checks the request shape before any catalog reads.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewInvalidInput("order request is nil")
	}

	if len(req.Items) == 0 {
		return model.NewInvalidInput("order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewInvalidInput(fmt.Sprintf("item %d: product ID is required", i))
		}
		if item.Quantity <= 0 {
			return model.NewInvalidInput(fmt.Sprintf("item %d: quantity must be greater than zero", i))
		}
	}

	if req.Payment.Method == "" {
		return model.NewInvalidInput("payment method is required")
	}

	if req.ShippingAddress.Region == "" {
		return model.NewInvalidInput("shipping region is required")
	}

	return nil
}
