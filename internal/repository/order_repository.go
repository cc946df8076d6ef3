package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitops/conference-api/internal/domain"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Order, error)
	List(ctx context.Context, limit, offset int, status *domain.OrderStatus) ([]domain.Order, error)
	ListByStatusesSince(ctx context.Context, statuses []domain.OrderStatus, since time.Time) ([]domain.Order, error)
	ItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	// MarkCompleted performs the success transition as one conditional
	// update. The bool result reports whether a row actually changed;
	// false with a non-nil order means a duplicate delivery.
	MarkCompleted(ctx context.Context, id string, att domain.PaymentAttachment) (*domain.Order, bool, error)
	MarkFailed(ctx context.Context, id string, att domain.PaymentAttachment) (bool, error)
	MarkCancelled(ctx context.Context, id string, att domain.PaymentAttachment) (bool, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderCols = `id, status, total_amount, currency,
customer_name, customer_email, customer_phone,
modem_pay_charge_id, transaction_reference, payment_method,
paid_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.Status, &o.TotalAmount, &o.Currency,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ModemPayChargeID, &o.TransactionReference, &o.PaymentMethod,
		&o.PaidAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderCols + ` FROM orders WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return o, err
}

func (r *orderRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const q = `SELECT ` + orderCols + ` FROM orders WHERE id = ANY($1) ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) List(ctx context.Context, limit, offset int, status *domain.OrderStatus) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + orderCols + ` FROM orders`
	args := []any{}
	if status != nil {
		q += ` WHERE status=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, *status, limit, offset)
	} else {
		q += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) ListByStatusesSince(ctx context.Context, statuses []domain.OrderStatus, since time.Time) ([]domain.Order, error) {
	const q = `SELECT ` + orderCols + ` FROM orders
		WHERE status = ANY($1) AND created_at >= $2
		ORDER BY created_at DESC`

	vals := make([]string, len(statuses))
	for i, s := range statuses {
		vals[i] = string(s)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, vals, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) ItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `SELECT id, order_id, product_ref, quantity, unit_price, subtotal
		FROM order_items WHERE order_id=$1 ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductRef, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// MarkCompleted guards against duplicate delivery in the statement itself:
// an already-completed order matches no row, so the update cannot re-fire.
func (r *orderRepository) MarkCompleted(ctx context.Context, id string, att domain.PaymentAttachment) (*domain.Order, bool, error) {
	const q = `UPDATE orders
		SET status='COMPLETED',
			modem_pay_charge_id=$2,
			transaction_reference=$3,
			payment_method=$4,
			paid_at=now(),
			updated_at=now()
		WHERE id=$1 AND status != 'COMPLETED'
		RETURNING ` + orderCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, att.ChargeID, att.TransactionReference, att.PaymentMethod))
	if err == pgx.ErrNoRows {
		// Either the order does not exist or it was already completed.
		existing, gerr := r.GetByID(ctx, id)
		if gerr != nil {
			return nil, false, gerr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (r *orderRepository) MarkFailed(ctx context.Context, id string, att domain.PaymentAttachment) (bool, error) {
	return r.markTerminal(ctx, id, domain.OrderFailed, att)
}

func (r *orderRepository) MarkCancelled(ctx context.Context, id string, att domain.PaymentAttachment) (bool, error) {
	return r.markTerminal(ctx, id, domain.OrderCancelled, att)
}

// markTerminal never demotes a completed order; a late failure or
// cancellation notice for a paid order matches no row.
func (r *orderRepository) markTerminal(ctx context.Context, id string, status domain.OrderStatus, att domain.PaymentAttachment) (bool, error) {
	const q = `UPDATE orders
		SET status=$2,
			modem_pay_charge_id=$3,
			transaction_reference=$4,
			updated_at=now()
		WHERE id=$1 AND status != 'COMPLETED'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, status, att.ChargeID, att.TransactionReference)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.Status, &o.TotalAmount, &o.Currency,
			&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
			&o.ModemPayChargeID, &o.TransactionReference, &o.PaymentMethod,
			&o.PaidAt, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
