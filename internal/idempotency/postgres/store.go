package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists the processed-orders guard so dedupe survives restarts.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Has(ctx context.Context, concern, orderID string) (bool, error) {
	query := `
		SELECT 1
		FROM processed_orders
		WHERE concern = $1 AND order_id = $2
	`

	var one int
	err := s.pool.QueryRow(ctx, query, concern, orderID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select processed order: %w", err)
	}

	return true, nil
}

func (s *Store) Mark(ctx context.Context, concern, orderID string) error {
	query := `
		INSERT INTO processed_orders (concern, order_id)
		VALUES ($1, $2)
		ON CONFLICT (concern, order_id) DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query, concern, orderID)
	if err != nil {
		return fmt.Errorf("insert processed order: %w", err)
	}

	return nil
}
