// Package ports define los puertos transversales de la capa de aplicación.
package ports

import (
	"context"

	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción. El callback de
// TxRunner.Run los recibe ya ligados a la tx en curso.
type TxRepos struct {
	Products   repository.ProductRepository
	BOM        repository.BOMRepository
	Orders     repository.ManufacturingOrderRepository
	WorkOrders repository.WorkOrderRepository
	Ledger     repository.LedgerRepository
	Stock      repository.StockRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que "explotar BOM" y "avanzar
// estado" nunca ocurran el uno sin el otro, y que cada entrada al ledger
// lleve su actualización de snapshot: todo hace Commit o todo hace Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
