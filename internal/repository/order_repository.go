package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Insert persists the order together with its items and attachments in a
// single transaction.
func (r *orderRepository) Insert(ctx context.Context, order *model.Order) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	orderQuery := `
		INSERT INTO orders (
			id, customer_id, status, paid,
			payment_method, payment_transaction_id, payment_amount, payment_currency,
			ship_line1, ship_city, ship_region, ship_postal_code,
			shipping_cost, tax_amount, total_price,
			notes, idempotency_key, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NULLIF($17, ''), $18, $19)
	`

	_, err = tx.Exec(ctx, orderQuery,
		order.ID, order.CustomerID, order.Status, order.Paid,
		order.Payment.Method, order.Payment.TransactionID, order.Payment.Amount, order.Payment.Currency,
		order.ShippingAddress.Line1, order.ShippingAddress.City, order.ShippingAddress.Region, order.ShippingAddress.PostalCode,
		order.ShippingCost, order.TaxAmount, order.TotalPrice,
		order.Notes, order.IdempotencyKey, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for i, item := range order.Items {
		batch.Queue(itemQuery, item.ID, order.ID, item.ProductID, item.Quantity, item.UnitPrice, i)
	}

	attachmentQuery := `
		INSERT INTO order_attachments (id, order_id, url, format, width, height)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, ref := range order.Attachments {
		batch.Queue(attachmentQuery, ref.ID, order.ID, ref.URL, ref.Format, ref.Width, ref.Height)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, execErr := results.Exec(); execErr != nil {
			results.Close()
			err = fmt.Errorf("failed to insert order rows: %w", execErr)
			r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to insert order rows")
			return err
		}
	}
	if err = results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Msg("order inserted")

	return nil
}

// FindByID retrieves an order with its items and attachments.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := r.scanOrder(ctx, `WHERE id = $1`, id)
	if err != nil || order == nil {
		return nil, err
	}

	if err := r.loadDetails(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// FindByIdempotencyKey retrieves the order previously committed with the
// given idempotency key, or nil when none exists.
func (r *orderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	order, err := r.scanOrder(ctx, `WHERE idempotency_key = $1`, key)
	if err != nil || order == nil {
		return nil, err
	}

	if err := r.loadDetails(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// FindByCustomer retrieves a page of a customer's orders, newest first.
func (r *orderRepository) FindByCustomer(ctx context.Context, customerID string, page, limit int) ([]model.Order, error) {
	offset := (page - 1) * limit

	query := orderSelect + `
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to query customer orders")
		return nil, fmt.Errorf("failed to query customer orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range orders {
		if err := r.loadDetails(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// Delete removes an order; items and attachments go with it via cascade.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFound("order", id.String())
	}

	r.logger.Debug().Str("order_id", id.String()).Msg("order deleted")
	return nil
}

const orderSelect = `
	SELECT id, customer_id, status, paid,
	       payment_method, payment_transaction_id, payment_amount, payment_currency,
	       ship_line1, ship_city, ship_region, ship_postal_code,
	       shipping_cost, tax_amount, total_price,
	       notes, COALESCE(idempotency_key, ''), created_at, updated_at
	FROM orders
`

// scanOrder fetches a single order head row matching the given predicate.
func (r *orderRepository) scanOrder(ctx context.Context, where string, arg any) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, orderSelect+where, arg)
	order, err := scanOrderRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return order, nil
}

func scanOrderRow(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.Paid,
		&o.Payment.Method, &o.Payment.TransactionID, &o.Payment.Amount, &o.Payment.Currency,
		&o.ShippingAddress.Line1, &o.ShippingAddress.City, &o.ShippingAddress.Region, &o.ShippingAddress.PostalCode,
		&o.ShippingCost, &o.TaxAmount, &o.TotalPrice,
		&o.Notes, &o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// loadDetails attaches items (in submission order) and attachments.
func (r *orderRepository) loadDetails(ctx context.Context, order *model.Order) error {
	itemsQuery := `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}
	order.Items = items

	attachmentsQuery := `
		SELECT id, url, format, width, height
		FROM order_attachments
		WHERE order_id = $1
		ORDER BY id
	`

	aRows, err := r.pool.Query(ctx, attachmentsQuery, order.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to query order attachments")
		return fmt.Errorf("failed to query order attachments: %w", err)
	}
	defer aRows.Close()

	var refs []model.MediaRef
	for aRows.Next() {
		var ref model.MediaRef
		if err := aRows.Scan(&ref.ID, &ref.URL, &ref.Format, &ref.Width, &ref.Height); err != nil {
			return fmt.Errorf("failed to scan order attachment: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := aRows.Err(); err != nil {
		return fmt.Errorf("error iterating order attachments: %w", err)
	}
	order.Attachments = refs

	return nil
}
