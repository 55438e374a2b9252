package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/apptest"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/stock"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

var operador = entity.Actor{UserID: "u-operador", Role: entity.RoleOperator}

func newStockUC(s *apptest.Store) *stock.UseCase {
	return stock.NewUseCase(s.TxRunner(), s.ProductRepo(), s.LedgerRepo(), s.StockRepo())
}

func TestRecordMovement_EntradaDesdeCero(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", decimal.Zero)
	uc := newStockUC(s)

	entry, err := uc.RecordMovement(context.Background(), operador, dto.RecordMovementRequest{
		ProductID:     "acero",
		Type:          entity.MovementTypeIn,
		Quantity:      d("50"),
		ReferenceType: entity.ReferencePurchase,
	})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, entity.MovementTypeIn, entry.MovementType)

	snap, err := uc.GetStock("acero")
	require.NoError(t, err)
	assert.True(t, snap.Quantity.Equal(d("50")), "0 + 50 = 50, obtenido %s", snap.Quantity)
}

func TestRecordMovement_SalidaMayorQueStockFallaSinEfectos(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", d("50"))
	uc := newStockUC(s)

	_, err := uc.RecordMovement(context.Background(), operador, dto.RecordMovementRequest{
		ProductID:     "acero",
		Type:          entity.MovementTypeOut,
		Quantity:      d("60"),
		ReferenceType: entity.ReferenceSales,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni snapshot ni ledger deben haber cambiado
	snap, err := uc.GetStock("acero")
	require.NoError(t, err)
	assert.True(t, snap.Quantity.Equal(d("50")), "el stock debe permanecer en 50")
	assert.Empty(t, s.Ledger, "una salida rechazada no escribe entrada al ledger")
}

func TestRecordMovement_SalidaExactaDejaCero(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", d("50"))
	uc := newStockUC(s)

	_, err := uc.RecordMovement(context.Background(), operador, dto.RecordMovementRequest{
		ProductID:     "acero",
		Type:          entity.MovementTypeOut,
		Quantity:      d("50"),
		ReferenceType: entity.ReferenceSales,
	})
	require.NoError(t, err, "consumir exactamente el disponible es legal")

	snap, _ := uc.GetStock("acero")
	assert.True(t, snap.Quantity.IsZero())
}

func TestRecordMovement_Validaciones(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", decimal.Zero)
	uc := newStockUC(s)
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, operador, dto.RecordMovementRequest{
		ProductID: "acero", Type: "transfer", Quantity: d("1"), ReferenceType: entity.ReferencePurchase,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = uc.RecordMovement(ctx, operador, dto.RecordMovementRequest{
		ProductID: "acero", Type: entity.MovementTypeIn, Quantity: d("0"), ReferenceType: entity.ReferencePurchase,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.RecordMovement(ctx, operador, dto.RecordMovementRequest{
		ProductID: "acero", Type: entity.MovementTypeIn, Quantity: d("-5"), ReferenceType: entity.ReferencePurchase,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	_, err = uc.RecordMovement(ctx, operador, dto.RecordMovementRequest{
		ProductID: "acero", Type: entity.MovementTypeIn, Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin reference_type")

	_, err = uc.RecordMovement(ctx, operador, dto.RecordMovementRequest{
		ProductID: "fantasma", Type: entity.MovementTypeIn, Quantity: d("1"), ReferenceType: entity.ReferencePurchase,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")
}

func TestRecordMovement_ActorSinRolRechazado(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", decimal.Zero)
	uc := newStockUC(s)

	_, err := uc.RecordMovement(context.Background(), entity.Actor{}, dto.RecordMovementRequest{
		ProductID: "acero", Type: entity.MovementTypeIn, Quantity: d("1"), ReferenceType: entity.ReferencePurchase,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAdjustTo_RegistraDeltaComoAjuste(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", d("50"))
	uc := newStockUC(s)
	ctx := context.Background()

	// Hacia abajo: 50 → 30 registra salida de 20
	entry, err := uc.AdjustTo(ctx, operador, "acero", d("30"))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, entity.MovementTypeOut, entry.MovementType)
	assert.True(t, entry.Quantity.Equal(d("20")))
	assert.Equal(t, entity.ReferenceAdjustment, entry.ReferenceType)

	// Hacia arriba: 30 → 45 registra entrada de 15
	entry, err = uc.AdjustTo(ctx, operador, "acero", d("45"))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIn, entry.MovementType)
	assert.True(t, entry.Quantity.Equal(d("15")))

	snap, _ := uc.GetStock("acero")
	assert.True(t, snap.Quantity.Equal(d("45")))
}

func TestAdjustTo_SinDeltaNoRegistraNada(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", d("50"))
	uc := newStockUC(s)

	entry, err := uc.AdjustTo(context.Background(), operador, "acero", d("50"))
	require.NoError(t, err)
	assert.Nil(t, entry, "ajustar al valor actual es un no-op")
	assert.Empty(t, s.Ledger)
}

func TestAdjustTo_ObjetivoNegativoRechazado(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", d("50"))
	uc := newStockUC(s)

	_, err := uc.AdjustTo(context.Background(), operador, "acero", d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReconcile_ConsistenteTrasMovimientos(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", decimal.Zero)
	uc := newStockUC(s)
	ctx := context.Background()

	for _, m := range []struct {
		typ string
		qty string
	}{
		{entity.MovementTypeIn, "100"},
		{entity.MovementTypeOut, "30"},
		{entity.MovementTypeIn, "5.5"},
	} {
		_, err := uc.RecordMovement(ctx, operador, dto.RecordMovementRequest{
			ProductID: "acero", Type: m.typ, Quantity: d(m.qty), ReferenceType: entity.ReferencePurchase,
		})
		require.NoError(t, err)
	}

	out, err := uc.Reconcile("acero")
	require.NoError(t, err)
	assert.True(t, out.Calculated.Equal(d("75.5")), "Σ(in) − Σ(out) = 100 − 30 + 5.5")
	assert.True(t, out.Actual.Equal(d("75.5")))
	assert.True(t, out.Consistent, "snapshot y ledger deben coincidir")
}

func TestReconcile_DetectaDeriva(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", decimal.Zero)
	uc := newStockUC(s)

	_, err := uc.RecordMovement(context.Background(), operador, dto.RecordMovementRequest{
		ProductID: "acero", Type: entity.MovementTypeIn, Quantity: d("10"), ReferenceType: entity.ReferencePurchase,
	})
	require.NoError(t, err)

	// Corromper el snapshot por fuera del motor
	s.Stock["acero"].Quantity = d("7")

	out, err := uc.Reconcile("acero")
	require.NoError(t, err)
	assert.False(t, out.Consistent)
	assert.True(t, out.Calculated.Equal(d("10")))
	assert.True(t, out.Actual.Equal(d("7")))
}

func TestListMovements_SoloDelProducto(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("acero", "Acero", decimal.Zero)
	s.SeedProduct("madera", "Madera", decimal.Zero)
	uc := newStockUC(s)
	ctx := context.Background()

	for _, id := range []string{"acero", "madera", "acero"} {
		_, err := uc.RecordMovement(ctx, operador, dto.RecordMovementRequest{
			ProductID: id, Type: entity.MovementTypeIn, Quantity: d("1"), ReferenceType: entity.ReferencePurchase,
		})
		require.NoError(t, err)
	}

	entries, err := uc.ListMovements("acero", 20, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
