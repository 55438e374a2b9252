package manufacturing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/apptest"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/manufacturing"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
	"github.com/amoreX/nmitoddo-back-sub000/pkg/logger"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

var (
	planner  = entity.Actor{UserID: "u-planner", Role: entity.RolePlanner}
	operator = entity.Actor{UserID: "u-operator", Role: entity.RoleOperator}
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error"})
}

// fixture Store con producto "mesa" (BOM: 4×patas, 1×tablero) y los casos de
// uso armados encima.
type fixture struct {
	store        *apptest.Store
	orderUC      *manufacturing.OrderUseCase
	woUC         *manufacturing.WorkOrderUseCase
	availability *manufacturing.AvailabilityUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := apptest.NewStore()
	s.SeedProduct("mesa", "Mesa", decimal.Zero)
	s.SeedProduct("patas", "Patas", d("100"))
	s.SeedProduct("tablero", "Tablero", d("100"))
	s.BOMs["mesa"] = []*entity.BOMEntry{
		{ID: "b1", ProductID: "mesa", ComponentID: "patas", QuantityPerUnit: d("4"), Operation: "Corte", OperationDurationMinutes: 30},
		{ID: "b2", ProductID: "mesa", ComponentID: "tablero", QuantityPerUnit: d("1"), Operation: "Ensamblaje", OperationDurationMinutes: 45},
	}

	log := testLogger()
	availability := manufacturing.NewAvailabilityUseCase(
		s.MORepo(), s.WORepo(), s.BOMRepo(), s.StockRepo(), s.ProductRepo(), s.WorkCenterRepo(), 5,
	)
	orderUC := manufacturing.NewOrderUseCase(
		s.TxRunner(), s.MORepo(), s.WORepo(), s.ProductRepo(), availability, log.Component("mo"), 60,
	)
	woUC := manufacturing.NewWorkOrderUseCase(
		s.TxRunner(), s.MORepo(), s.WORepo(), log.Component("wo"), 60,
	)
	return &fixture{store: s, orderUC: orderUC, woUC: woUC, availability: availability}
}

func (f *fixture) createMO(t *testing.T, quantity string) *entity.ManufacturingOrder {
	t.Helper()
	qty := d(quantity)
	mo, err := f.orderUC.Create(context.Background(), planner, dto.CreateMORequest{
		ProductID: strPtr("mesa"),
		Quantity:  &qty,
	})
	require.NoError(t, err)
	return mo
}

func (f *fixture) transition(t *testing.T, moID string, target entity.MoStatus) *entity.ManufacturingOrder {
	t.Helper()
	mo, err := f.orderUC.Transition(context.Background(), planner, moID, target)
	require.NoError(t, err, "transición a %s debe ser legal", target)
	return mo
}

func (f *fixture) completeAllWOs(t *testing.T, moID string) {
	t.Helper()
	wos, err := f.store.WORepo().ListByMO(moID)
	require.NoError(t, err)
	for _, wo := range wos {
		_, err := f.woUC.Start(context.Background(), operator, wo.ID)
		require.NoError(t, err)
		_, err = f.woUC.Complete(context.Background(), operator, wo.ID)
		require.NoError(t, err)
	}
}

func strPtr(s string) *string { return &s }

// ── creación ─────────────────────────────────────────────────────────────────

func TestCreate_NaceEnDraftConCantidadPorDefecto(t *testing.T) {
	f := newFixture(t)

	mo, err := f.orderUC.Create(context.Background(), planner, dto.CreateMORequest{ProductID: strPtr("mesa")})
	require.NoError(t, err)
	assert.Equal(t, entity.MoStatusDraft, mo.Status)
	assert.True(t, mo.Quantity.Equal(d("1")), "sin cantidad explícita se asume 1")
	assert.Equal(t, planner.UserID, mo.CreatedByID)
}

func TestCreate_SinProductoCreaPlaceholder(t *testing.T) {
	f := newFixture(t)

	mo, err := f.orderUC.Create(context.Background(), planner, dto.CreateMORequest{
		ProductSeed: &dto.ProductSeed{Name: "Prototipo X"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, mo.ProductID, "la orden puede existir antes que el producto")

	product, err := f.store.ProductRepo().GetByID(mo.ProductID)
	require.NoError(t, err)
	require.NotNil(t, product, "el placeholder debe quedar persistido")
	assert.Equal(t, "Prototipo X", product.Name)
}

func TestCreate_CantidadInvalidaRechazada(t *testing.T) {
	f := newFixture(t)
	zero := d("0")

	_, err := f.orderUC.Create(context.Background(), planner, dto.CreateMORequest{
		ProductID: strPtr("mesa"), Quantity: &zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_OperadorNoGestiona(t *testing.T) {
	f := newFixture(t)

	_, err := f.orderUC.Create(context.Background(), operator, dto.CreateMORequest{ProductID: strPtr("mesa")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ── confirmación y explosión ─────────────────────────────────────────────────

func TestTransition_ConfirmarExplotaBOMEnWorkOrders(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "5")

	mo = f.transition(t, mo.ID, entity.MoStatusConfirmed)
	assert.Equal(t, entity.MoStatusConfirmed, mo.Status)

	wos, err := f.store.WORepo().ListByMO(mo.ID)
	require.NoError(t, err)
	require.Len(t, wos, 2, "una orden de trabajo por línea de BOM")
	assert.Equal(t, "Corte", wos[0].Operation)
	assert.Equal(t, entity.WoStatusToDo, wos[0].Status)
	assert.Equal(t, 30, wos[0].DurationPlannedMinutes)
	assert.Equal(t, "Ensamblaje", wos[1].Operation)
}

func TestTransition_ConfirmarConBOMVaciaQuedaSinWOs(t *testing.T) {
	f := newFixture(t)
	f.store.SeedProduct("tornillo", "Tornillo", decimal.Zero) // sin BOM
	qty := d("10")
	mo, err := f.orderUC.Create(context.Background(), planner, dto.CreateMORequest{
		ProductID: strPtr("tornillo"), Quantity: &qty,
	})
	require.NoError(t, err)

	mo = f.transition(t, mo.ID, entity.MoStatusConfirmed)
	assert.Equal(t, entity.MoStatusConfirmed, mo.Status, "confirmar sin BOM es legal (orden sin pasos)")

	wos, _ := f.store.WORepo().ListByMO(mo.ID)
	assert.Empty(t, wos)
}

func TestTransition_ConfirmarConFaltanteEsPermisivo(t *testing.T) {
	f := newFixture(t)
	f.store.Stock["patas"].Quantity = d("1") // muy por debajo de lo requerido
	mo := f.createMO(t, "5")

	mo = f.transition(t, mo.ID, entity.MoStatusConfirmed)
	assert.Equal(t, entity.MoStatusConfirmed, mo.Status,
		"el faltante no bloquea la confirmación; la compuerta dura es Validate")
}

// ── transiciones ilegales ────────────────────────────────────────────────────

func TestTransition_SaltoIlegalRechazado(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")

	_, err := f.orderUC.Transition(context.Background(), planner, mo.ID, entity.MoStatusDone)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "draft → done no está en la tabla")

	got, _ := f.store.MORepo().GetByID(mo.ID)
	assert.Equal(t, entity.MoStatusDraft, got.Status, "la orden permanece en su estado anterior")
}

func TestTransition_EstadoDesconocidoRechazado(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")

	_, err := f.orderUC.Transition(context.Background(), planner, mo.ID, entity.MoStatus("archivada"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_DesdeTerminalRechazada(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusCancelled)

	_, err := f.orderUC.Transition(context.Background(), planner, mo.ID, entity.MoStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "cancelled es terminal")
}

// ── transiciones concurrentes ────────────────────────────────────────────────

func TestTransition_ConfirmacionRivalNoDuplicaLaExplosion(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")

	// Una confirmación rival gana la carrera entre la pre-verificación y la
	// transacción; la relectura bloqueada debe rechazar la segunda llamada.
	f.store.BeforeTx = func() {
		f.transition(t, mo.ID, entity.MoStatusConfirmed)
	}

	_, err := f.orderUC.Transition(context.Background(), planner, mo.ID, entity.MoStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	wos, _ := f.store.WORepo().ListByMO(mo.ID)
	assert.Len(t, wos, 2, "la BOM se explota exactamente una vez")
}

func TestTransition_CierreRivalNoDuplicaElConsumo(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "5")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	f.transition(t, mo.ID, entity.MoStatusInProgress)
	f.completeAllWOs(t, mo.ID)

	f.store.BeforeTx = func() {
		f.transition(t, mo.ID, entity.MoStatusDone)
	}

	_, err := f.orderUC.Transition(context.Background(), planner, mo.ID, entity.MoStatusDone)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	patas, _ := f.store.StockRepo().Get("patas")
	assert.True(t, patas.Quantity.Equal(d("80")), "los componentes se consumen una sola vez, obtenido %s", patas.Quantity)
	mesas, _ := f.store.StockRepo().Get("mesa")
	assert.True(t, mesas.Quantity.Equal(d("5")), "el producto terminado se recibe una sola vez")
	assert.Len(t, f.store.Ledger, 3)
}

// stockRepoCaido delega en el repo real salvo Get, que falla siempre: deja
// ilegible el snapshot para el chequeo consultivo de disponibilidad.
type stockRepoCaido struct {
	repository.StockRepository
}

func (r *stockRepoCaido) Get(string) (*entity.StockSnapshot, error) {
	return nil, errors.New("stock: snapshot ilegible")
}

func TestTransition_ConfirmarProcedeSiElChequeoConsultivoFalla(t *testing.T) {
	f := newFixture(t)
	availability := manufacturing.NewAvailabilityUseCase(
		f.store.MORepo(), f.store.WORepo(), f.store.BOMRepo(),
		&stockRepoCaido{f.store.StockRepo()}, f.store.ProductRepo(), f.store.WorkCenterRepo(), 5,
	)
	orderUC := manufacturing.NewOrderUseCase(
		f.store.TxRunner(), f.store.MORepo(), f.store.WORepo(), f.store.ProductRepo(),
		availability, testLogger().Component("mo"), 60,
	)
	mo := f.createMO(t, "1")

	got, err := orderUC.Transition(context.Background(), planner, mo.ID, entity.MoStatusConfirmed)
	require.NoError(t, err, "el chequeo de disponibilidad es consultivo; su fallo se registra y no bloquea")
	assert.Equal(t, entity.MoStatusConfirmed, got.Status)
}

// ── cierre: consumo y recepción ──────────────────────────────────────────────

func TestTransition_CerrarConWOsPendientesFalla(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "5")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	f.transition(t, mo.ID, entity.MoStatusInProgress)

	_, err := f.orderUC.Transition(context.Background(), planner, mo.ID, entity.MoStatusDone)
	assert.ErrorIs(t, err, domain.ErrIncompleteWorkOrders)

	got, _ := f.store.MORepo().GetByID(mo.ID)
	assert.Equal(t, entity.MoStatusInProgress, got.Status)
}

func TestTransition_CerrarConsumeComponentesYRecibeProducto(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "5")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	f.transition(t, mo.ID, entity.MoStatusInProgress)
	f.completeAllWOs(t, mo.ID)

	// completar la última WO dejó la MO en to_close
	got, _ := f.store.MORepo().GetByID(mo.ID)
	require.Equal(t, entity.MoStatusToClose, got.Status)

	mo = f.transition(t, mo.ID, entity.MoStatusDone)
	assert.Equal(t, entity.MoStatusDone, mo.Status)

	// Consumo: 5 mesas × 4 patas = 20; 5 × 1 tablero = 5
	patas, _ := f.store.StockRepo().Get("patas")
	assert.True(t, patas.Quantity.Equal(d("80")), "100 − 20 = 80, obtenido %s", patas.Quantity)
	tablero, _ := f.store.StockRepo().Get("tablero")
	assert.True(t, tablero.Quantity.Equal(d("95")))

	// Recepción del producto terminado
	mesas, _ := f.store.StockRepo().Get("mesa")
	assert.True(t, mesas.Quantity.Equal(d("5")))

	// Ledger: 2 salidas (componentes) + 1 entrada (producto), todas con referencia MO
	require.Len(t, f.store.Ledger, 3)
	for _, e := range f.store.Ledger {
		assert.Equal(t, entity.ReferenceMO, e.ReferenceType)
		require.NotNil(t, e.ReferenceID)
		assert.Equal(t, mo.ID, *e.ReferenceID)
	}
}

func TestTransition_CerrarSinStockDeComponenteFalla(t *testing.T) {
	f := newFixture(t)
	f.store.BOMs["mesa"] = []*entity.BOMEntry{
		{ID: "b1", ProductID: "mesa", ComponentID: "patas", QuantityPerUnit: d("4"), Operation: "Corte"},
	}
	f.store.Stock["patas"].Quantity = d("10") // se requieren 20
	mo := f.createMO(t, "5")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	f.transition(t, mo.ID, entity.MoStatusInProgress)
	f.completeAllWOs(t, mo.ID)

	_, err := f.orderUC.Transition(context.Background(), planner, mo.ID, entity.MoStatusDone)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"en el cierre el faltante sí es duro: el stock nunca queda negativo")

	patas, _ := f.store.StockRepo().Get("patas")
	assert.True(t, patas.Quantity.Equal(d("10")), "el stock no debe haberse tocado")
}

// ── cancelación ──────────────────────────────────────────────────────────────

func TestTransition_CancelarFuerzaCompletarWOs(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "2")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	f.transition(t, mo.ID, entity.MoStatusInProgress)

	wos, _ := f.store.WORepo().ListByMO(mo.ID)
	_, err := f.woUC.Start(context.Background(), operator, wos[0].ID)
	require.NoError(t, err)

	mo = f.transition(t, mo.ID, entity.MoStatusCancelled)
	assert.Equal(t, entity.MoStatusCancelled, mo.Status)

	wos, _ = f.store.WORepo().ListByMO(mo.ID)
	for _, wo := range wos {
		assert.Equal(t, entity.WoStatusCompleted, wo.Status,
			"las WOs no se borran al cancelar: se fuerzan a completed")
		assert.Nil(t, wo.StartedAt)
	}
}

// ── eliminación ──────────────────────────────────────────────────────────────

func TestDelete_EnDraftEliminaEnCascada(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	_, err := f.woUC.CreateManual(context.Background(), planner, mo.ID, dto.CreateWORequest{Operation: "Inspección"})
	require.NoError(t, err)

	require.NoError(t, f.orderUC.Delete(context.Background(), planner, mo.ID))

	got, _ := f.store.MORepo().GetByID(mo.ID)
	assert.Nil(t, got)
	wos, _ := f.store.WORepo().ListByMO(mo.ID)
	assert.Empty(t, wos, "las WOs no sobreviven a su MO")
}

func TestDelete_FueraDeDraftRechazado(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)

	err := f.orderUC.Delete(context.Background(), planner, mo.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "fuera de draft se cancela, no se elimina")
}

func TestDeleteOrCancel_FueraDeDraftCancela(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)

	require.NoError(t, f.orderUC.DeleteOrCancel(context.Background(), planner, mo.ID))

	got, _ := f.store.MORepo().GetByID(mo.ID)
	require.NotNil(t, got, "la orden sigue existiendo")
	assert.Equal(t, entity.MoStatusCancelled, got.Status)
}

func TestGetWithAvailability_IncluyeWOsYDisponibilidad(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "5")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)

	got, wos, availability, err := f.orderUC.GetWithAvailability(mo.ID)
	require.NoError(t, err)
	assert.Equal(t, mo.ID, got.ID)
	assert.Len(t, wos, 2)
	require.NotNil(t, availability)
	assert.Len(t, availability.Components, 2)
	assert.Equal(t, 0, availability.TotalShortageCount, "hay stock de sobra en el fixture")
}
