package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

const productColumns = `id, barcode, name, category, price_minor, vat_rate_bp, stock, min_stock, active, created_at, updated_at`

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	var (
		where []string
		args  []any
	)
	if !q.IncludeInactive {
		where = append(where, "active")
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR barcode ILIKE $%d)", len(args), len(args)))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	sql := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY name ASC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Insert(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (barcode, name, category, price_minor, vat_rate_bp, stock, min_stock, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+productColumns,
		p.Barcode, p.Name, p.Category, p.PriceMinor, p.VATRateBP, p.Stock, p.MinStock, p.Active)

	out, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, domain.ErrDuplicateBarcode
		}
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return out, nil
}

// Update rewrites the catalog fields. Stock is owned by SetStock,
// DecrementStock and the feed upsert, so it stays untouched here.
func (r *ProductRepository) Update(ctx context.Context, p domain.Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET
			barcode = $2,
			name = $3,
			category = $4,
			price_minor = $5,
			vat_rate_bp = $6,
			min_stock = $7,
			active = $8,
			updated_at = now()
		WHERE id = $1
	`, p.ID, p.Barcode, p.Name, p.Category, p.PriceMinor, p.VATRateBP, p.MinStock, p.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBarcode
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) SetStock(ctx context.Context, id string, stock int32) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET stock = $2, updated_at = now() WHERE id = $1
	`, id, stock)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementStock is a bare subtraction with no floor and no transaction
// shared with the sale insert. Two registers selling the last unit both
// succeed and the count goes negative; the dashboard reports that as
// oversold.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int32) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1
	`, id, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertByBarcode applies one catalog feed message. Price, rate, name and
// category replace the stored values; the stock delta adds on; min_stock
// changes only when the message carries one. New barcodes start active and
// never below zero stock.
func (r *ProductRepository) UpsertByBarcode(ctx context.Context, u domain.CatalogUpdate) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (barcode, name, category, price_minor, vat_rate_bp, stock, min_stock)
		VALUES ($1, $2, $3, $4, $5, GREATEST($6, 0), COALESCE($7, 0))
		ON CONFLICT (barcode) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price_minor = EXCLUDED.price_minor,
			vat_rate_bp = EXCLUDED.vat_rate_bp,
			stock = products.stock + $6,
			min_stock = COALESCE($7, products.min_stock),
			updated_at = now()
		RETURNING `+productColumns,
		u.Barcode, u.Name, u.Category, u.PriceMinor, u.VATRateBP, u.StockDelta, u.MinStock)

	p, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("upsert product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) ListActive(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		return []domain.Product{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE active
		ORDER BY updated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *ProductRepository) InventoryHealth(ctx context.Context) (domain.InventoryHealth, error) {
	var h domain.InventoryHealth

	row := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE active),
			COUNT(*) FILTER (WHERE active AND stock <= 0),
			COUNT(*) FILTER (WHERE active AND stock < 0)
		FROM products
	`)
	if err := row.Scan(&h.ActiveProducts, &h.OutOfStock, &h.Oversold); err != nil {
		return domain.InventoryHealth{}, fmt.Errorf("inventory counts: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE active AND stock > 0 AND stock <= min_stock
		ORDER BY stock ASC, name ASC
		LIMIT 20
	`)
	if err != nil {
		return domain.InventoryHealth{}, fmt.Errorf("low stock products: %w", err)
	}
	defer rows.Close()

	low, err := scanProducts(rows)
	if err != nil {
		return domain.InventoryHealth{}, err
	}
	h.LowStock = low
	return h, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Barcode, &p.Name, &p.Category, &p.PriceMinor, &p.VATRateBP,
		&p.Stock, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Barcode, &p.Name, &p.Category, &p.PriceMinor, &p.VATRateBP,
			&p.Stock, &p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products rows: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
