package repository

import (
	"context"
	"database/sql"

	"github.com/yewhenp/checkout-orchestrator/internal/models"
)

type DecisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

func (r *DecisionRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS order_decisions (
			order_id VARCHAR(255) PRIMARY KEY,
			status VARCHAR(50) NOT NULL,
			error_message TEXT,
			evaluator VARCHAR(50),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_decisions_status ON order_decisions(status)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *DecisionRepository) InsertDecision(ctx context.Context, rec models.DecisionRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_decisions (order_id, status, error_message, evaluator)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING
	`, rec.OrderID, rec.Status, rec.ErrorMessage, rec.Evaluator)
	return err
}

func (r *DecisionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.DecisionRecord, error) {
	rec := models.DecisionRecord{OrderID: orderID}
	err := r.db.QueryRowContext(ctx, `
		SELECT status, error_message, evaluator, created_at
		FROM order_decisions WHERE order_id = $1
	`, orderID).Scan(&rec.Status, &rec.ErrorMessage, &rec.Evaluator, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
