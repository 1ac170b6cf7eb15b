package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

type SaleRepository struct {
	pool *pgxpool.Pool
}

func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// Record writes the sale header and every item row in one transaction. The
// cashier id is bound as app.cashier_id for the transaction, which is what
// the row-level security policies on sales and sale_items check.
func (r *SaleRepository) Record(ctx context.Context, sale domain.Sale) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT set_config('app.cashier_id', $1, true)`, sale.CashierID); err != nil {
		return fmt.Errorf("bind cashier: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO sales (id, receipt_number, cashier_id, payment_method, total_minor, vat_minor, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, sale.ID, sale.ReceiptNumber, sale.CashierID, string(sale.Payment),
		sale.TotalMinor, sale.VATMinor, sale.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReceipt
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	for _, it := range sale.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, product_id, name, quantity, unit_price_minor, vat_rate_bp, line_total_minor, vat_minor)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, sale.ID, it.ProductID, it.Name, it.Quantity, it.UnitPriceMinor,
			it.VATRateBP, it.LineTotalMinor, it.VATMinor)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *SaleRepository) GetByReceipt(ctx context.Context, receiptNumber string) (domain.Sale, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, receipt_number, cashier_id, payment_method, total_minor, vat_minor, created_at
		FROM sales
		WHERE receipt_number = $1
	`, receiptNumber)

	var s domain.Sale
	err := row.Scan(&s.ID, &s.ReceiptNumber, &s.CashierID, &s.Payment, &s.TotalMinor, &s.VATMinor, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Sale{}, domain.ErrNotFound
		}
		return domain.Sale{}, fmt.Errorf("scan sale: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT product_id, name, quantity, unit_price_minor, vat_rate_bp, line_total_minor, vat_minor
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id ASC
	`, s.ID)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("query sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.SaleItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.UnitPriceMinor,
			&it.VATRateBP, &it.LineTotalMinor, &it.VATMinor); err != nil {
			return domain.Sale{}, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return domain.Sale{}, fmt.Errorf("sale items rows: %w", err)
	}

	return s, nil
}

// ListRecent returns headers only; list views show totals, the receipt view
// loads items through GetByReceipt.
func (r *SaleRepository) ListRecent(ctx context.Context, limit int) ([]domain.Sale, error) {
	if limit <= 0 {
		return []domain.Sale{}, nil
	}
	return r.listHeaders(ctx, `
		SELECT id, receipt_number, cashier_id, payment_method, total_minor, vat_minor, created_at
		FROM sales
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

func (r *SaleRepository) ListPage(ctx context.Context, limit, offset int) ([]domain.Sale, error) {
	if limit <= 0 {
		return []domain.Sale{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	return r.listHeaders(ctx, `
		SELECT id, receipt_number, cashier_id, payment_method, total_minor, vat_minor, created_at
		FROM sales
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (r *SaleRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

// SummarizeRange aggregates sales with created_at in [from, to). Day is set
// to from, which callers pass as the local midnight of the reported day.
func (r *SaleRepository) SummarizeRange(ctx context.Context, from, to time.Time) (domain.DailySummary, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_minor), 0)::bigint,
			COALESCE(SUM(vat_minor), 0)::bigint,
			COALESCE((
				SELECT SUM(si.quantity)
				FROM sale_items si
				JOIN sales s ON s.id = si.sale_id
				WHERE s.created_at >= $1 AND s.created_at < $2
			), 0)::bigint
		FROM sales
		WHERE created_at >= $1 AND created_at < $2
	`, from, to)

	s := domain.DailySummary{Day: from}
	if err := row.Scan(&s.SaleCount, &s.GrossMinor, &s.VATMinor, &s.ItemsSold); err != nil {
		return domain.DailySummary{}, fmt.Errorf("summarize sales: %w", err)
	}
	return s, nil
}

func (r *SaleRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		return []domain.TopProduct{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT si.product_id, si.name,
			SUM(si.quantity)::bigint,
			SUM(si.line_total_minor)::bigint
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		GROUP BY si.product_id, si.name
		ORDER BY SUM(si.quantity) DESC, SUM(si.line_total_minor) DESC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []domain.TopProduct
	for rows.Next() {
		var tp domain.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.QuantitySold, &tp.GrossMinor); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top products rows: %w", err)
	}
	return out, nil
}

func (r *SaleRepository) listHeaders(ctx context.Context, sql string, args ...any) ([]domain.Sale, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.ReceiptNumber, &s.CashierID, &s.Payment,
			&s.TotalMinor, &s.VATMinor, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales rows: %w", err)
	}
	return out, nil
}
