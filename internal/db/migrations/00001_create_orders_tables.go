package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpOrdersTables, DownOrdersTables)
}

func UpOrdersTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE orders
(
    id                    TEXT PRIMARY KEY,
    status                VARCHAR(32) NOT NULL DEFAULT 'PENDING',
    total_amount          BIGINT NOT NULL DEFAULT 0,
    currency              VARCHAR(8) NOT NULL DEFAULT 'XAF',
    customer_name         TEXT NOT NULL DEFAULT '',
    customer_email        TEXT NOT NULL DEFAULT '',
    customer_phone        TEXT NOT NULL DEFAULT '',
    modem_pay_charge_id   TEXT,
    transaction_reference TEXT,
    payment_method        TEXT,
    paid_at               TIMESTAMPTZ,
    created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX idx_orders_status_created_at ON orders (status, created_at DESC);

CREATE TABLE order_items
(
    id          BIGSERIAL PRIMARY KEY,
    order_id    TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    product_ref TEXT NOT NULL,
    quantity    INT NOT NULL DEFAULT 1,
    unit_price  BIGINT NOT NULL DEFAULT 0,
    subtotal    BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX idx_order_items_order_id ON order_items (order_id);`)
	return err
}

func DownOrdersTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE order_items; DROP TABLE orders;`)
	return err
}
