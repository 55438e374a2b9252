package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/ports"
)

// Ensure TxRunner implements ports.TxRunner.
var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con todos los repos atados a la tx y
// hace Commit o Rollback. Las transiciones de estado, la explosión de BOM y
// los pares ledger+snapshot pasan siempre por aquí.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := ports.TxRepos{
		Products:   NewProductRepository(tx),
		BOM:        NewBOMRepository(tx),
		Orders:     NewManufacturingOrderRepository(tx),
		WorkOrders: NewWorkOrderRepository(tx),
		Ledger:     NewLedgerRepository(tx),
		Stock:      NewStockRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
