// Package stock implementa el motor transaccional de inventario: cada
// movimiento escribe una entrada append-only en el ledger y actualiza el
// snapshot en la misma transacción, con bloqueo de fila (SELECT FOR UPDATE)
// para que la verificación de stock no-negativo esté libre de carreras.
package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/ports"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

// UseCase casos de uso de stock: registrar movimientos, ajustar a una cantidad
// objetivo, consultar el snapshot y reconciliar contra el ledger.
type UseCase struct {
	txRunner    ports.TxRunner
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
	stockRepo   repository.StockRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	stockRepo repository.StockRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		stockRepo:   stockRepo,
	}
}

// RecordMovement registra un movimiento: valida, bloquea la fila del snapshot,
// verifica que una salida no deje cantidad negativa, y escribe ledger +
// snapshot con Commit o Rollback conjuntos.
func (uc *UseCase) RecordMovement(ctx context.Context, actor entity.Actor, in dto.RecordMovementRequest) (*entity.LedgerEntry, error) {
	if !actor.CanOperate() {
		return nil, domain.ErrForbidden
	}
	if in.Type != entity.MovementTypeIn && in.Type != entity.MovementTypeOut {
		return nil, fmt.Errorf("%w: tipo de movimiento %q (esperado in|out)", domain.ErrInvalidInput, in.Type)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero, recibido %s", domain.ErrInvalidInput, in.Quantity)
	}
	if in.ReferenceType == "" {
		return nil, fmt.Errorf("%w: reference_type requerido", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}

	var entry *entity.LedgerEntry
	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		entry, err = ApplyMovementInTx(r.Ledger, r.Stock, actor.UserID, in.ProductID, in.Type, in.Quantity, in.ReferenceType, in.ReferenceID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ApplyMovementInTx aplica un movimiento usando repositorios ya atados a la
// transacción del caller (lo reutiliza la transición de MO para consumir
// componentes y recibir producto terminado en su misma tx). Bloquea la fila
// del snapshot, verifica stock no-negativo para salidas, hace upsert del
// snapshot y agrega la entrada al ledger.
func ApplyMovementInTx(
	ledgerRepo repository.LedgerRepository,
	stockRepo repository.StockRepository,
	userID, productID, movementType string,
	quantity decimal.Decimal,
	referenceType string,
	referenceID *string,
	now time.Time,
) (*entity.LedgerEntry, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero, recibido %s", domain.ErrInvalidInput, quantity)
	}
	snapshot, err := stockRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	var newQty decimal.Decimal
	switch movementType {
	case entity.MovementTypeIn:
		newQty = snapshot.Quantity.Add(quantity)
	case entity.MovementTypeOut:
		newQty = snapshot.Quantity.Sub(quantity)
		if newQty.IsNegative() {
			return nil, fmt.Errorf("%w: producto %s, se requieren %s, disponibles %s, faltan %s",
				domain.ErrInsufficientStock, productID, quantity, snapshot.Quantity, quantity.Sub(snapshot.Quantity))
		}
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movementType)
	}

	snapshot.Quantity = newQty
	snapshot.UpdatedAt = now
	if err := stockRepo.Upsert(snapshot); err != nil {
		return nil, err
	}
	entry := &entity.LedgerEntry{
		ID:            uuid.New().String(),
		ProductID:     productID,
		MovementType:  movementType,
		Quantity:      quantity,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		CreatedByID:   userID,
		CreatedAt:     now,
	}
	if err := ledgerRepo.Append(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AdjustTo lleva el stock de un producto a una cantidad objetivo registrando
// el movimiento delta como ajuste (el ledger sigue siendo append-only: una
// corrección es una nueva entrada, nunca un update).
func (uc *UseCase) AdjustTo(ctx context.Context, actor entity.Actor, productID string, target decimal.Decimal) (*entity.LedgerEntry, error) {
	if !actor.CanOperate() {
		return nil, domain.ErrForbidden
	}
	if target.IsNegative() {
		return nil, fmt.Errorf("%w: la cantidad objetivo no puede ser negativa, recibido %s", domain.ErrInvalidInput, target)
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}

	var entry *entity.LedgerEntry
	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		snapshot, err := r.Stock.GetForUpdate(productID)
		if err != nil {
			return err
		}
		delta := target.Sub(snapshot.Quantity)
		if delta.IsZero() {
			return nil // ya está en el objetivo, no se registra nada
		}
		movType := entity.MovementTypeIn
		if delta.IsNegative() {
			movType = entity.MovementTypeOut
			delta = delta.Neg()
		}
		entry, err = ApplyMovementInTx(r.Ledger, r.Stock, actor.UserID, productID, movType, delta, entity.ReferenceAdjustment, nil, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetStock devuelve el snapshot actual (cantidad 0 si el producto no tiene fila).
func (uc *UseCase) GetStock(productID string) (*entity.StockSnapshot, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return uc.stockRepo.Get(productID)
}

// Reconcile compara la suma del ledger con el snapshot. Solo auditoría:
// las lecturas normales usan el snapshot.
func (uc *UseCase) Reconcile(productID string) (*dto.ReconcileResponse, error) {
	totalIn, totalOut, err := uc.ledgerRepo.SumMovements(productID)
	if err != nil {
		return nil, err
	}
	snapshot, err := uc.stockRepo.Get(productID)
	if err != nil {
		return nil, err
	}
	calculated := totalIn.Sub(totalOut)
	return &dto.ReconcileResponse{
		ProductID:  productID,
		Calculated: calculated,
		Actual:     snapshot.Quantity,
		Consistent: calculated.Equal(snapshot.Quantity),
	}, nil
}

// ListMovements lista las entradas del ledger de un producto (paginado).
func (uc *UseCase) ListMovements(productID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	return uc.ledgerRepo.ListByProduct(productID, limit, offset)
}
