package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/niksmo/medsupply/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.QuotesStorage = QuotesRepository{}

// A QuotesRepository archives the latest state of every quote.
type QuotesRepository struct {
	sqldb sqldb
}

func NewQuotesRepository(sqldb sqldb) QuotesRepository {
	return QuotesRepository{sqldb}
}

func (r QuotesRepository) StoreQuotes(
	ctx context.Context, vs []domain.QuoteRequest,
) (storeErr error) {
	const op = "QuotesRepository.StoreQuotes"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		err := tx.Rollback()
		if err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	upsertQuote := `
		INSERT INTO quotes (
			quote_id, customer_name, customer_email, customer_phone,
			status, total_estimated, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (quote_id) DO UPDATE SET
			status = EXCLUDED.status,
			total_estimated = EXCLUDED.total_estimated,
			updated_at = now();
	`
	deleteItems := `DELETE FROM quote_items WHERE quote_id = $1;`
	insertItem := `
		INSERT INTO quote_items (quote_id, position, product_id, name, quantity)
		VALUES ($1, $2, $3, $4, $5);
	`

	for _, v := range vs {
		var total decimal.NullDecimal
		if v.TotalEstimated != nil {
			total = decimal.NewNullDecimal(*v.TotalEstimated)
		}

		_, err := tx.ExecContext(ctx, upsertQuote,
			v.ID, v.CustomerName, v.CustomerEmail, v.CustomerPhone,
			string(v.Status), total, v.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to upsert quote: %w", op, err)
		}

		if _, err := tx.ExecContext(ctx, deleteItems, v.ID); err != nil {
			return fmt.Errorf("%s: failed to delete items: %w", op, err)
		}

		for i, item := range v.Items {
			_, err := tx.ExecContext(ctx, insertItem,
				v.ID, i, item.ProductID, item.Name, item.Quantity,
			)
			if err != nil {
				return fmt.Errorf("%s: failed to insert item: %w", op, err)
			}
		}
	}

	return nil
}

func (r QuotesRepository) ReadQuote(
	ctx context.Context, id string,
) (domain.QuoteRequest, error) {
	const op = "QuotesRepository.ReadQuote"

	if err := ctx.Err(); err != nil {
		return domain.QuoteRequest{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT
			quote_id, customer_name, customer_email, customer_phone,
			status, total_estimated, created_at
		FROM quotes
		WHERE quote_id = $1;`

	var (
		v      domain.QuoteRequest
		status string
		total  decimal.NullDecimal
	)
	err := r.sqldb.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.CustomerName, &v.CustomerEmail, &v.CustomerPhone,
		&status, &total, &v.Timestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.QuoteRequest{}, fmt.Errorf("%s: %w", op, domain.ErrQuoteNotFound)
		}
		return domain.QuoteRequest{}, fmt.Errorf("%s: %w", op, err)
	}
	v.Status = domain.QuoteStatus(status)
	if total.Valid {
		v.TotalEstimated = &total.Decimal
	}

	items, err := r.readItems(ctx, id)
	if err != nil {
		return domain.QuoteRequest{}, fmt.Errorf("%s: %w", op, err)
	}
	v.Items = items
	return v, nil
}

func (r QuotesRepository) readItems(
	ctx context.Context, quoteID string,
) (vs []domain.QuoteItem, err error) {
	query := `
		SELECT product_id, name, quantity
		FROM quote_items
		WHERE quote_id = $1
		ORDER BY position ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, quoteID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for rows.Next() {
		var item domain.QuoteItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity); err != nil {
			return nil, err
		}
		vs = append(vs, item)
	}
	return vs, rows.Err()
}
