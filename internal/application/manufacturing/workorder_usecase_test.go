package manufacturing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

func TestWorkOrder_StartEstampaInicio(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	wos, _ := f.store.WORepo().ListByMO(mo.ID)

	wo, err := f.woUC.Start(context.Background(), operator, wos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WoStatusStarted, wo.Status)
	assert.NotNil(t, wo.StartedAt, "start debe estampar el inicio para acumular duración")
}

func TestWorkOrder_PausaYReanudacion(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	wos, _ := f.store.WORepo().ListByMO(mo.ID)
	ctx := context.Background()

	_, err := f.woUC.Start(ctx, operator, wos[0].ID)
	require.NoError(t, err)
	wo, err := f.woUC.Pause(ctx, operator, wos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WoStatusPaused, wo.Status)
	assert.Nil(t, wo.StartedAt, "pausar limpia la marca de inicio")

	wo, err = f.woUC.Start(ctx, operator, wos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WoStatusStarted, wo.Status, "paused → started es legal (reanudar)")
}

func TestWorkOrder_TransicionesIlegales(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	wos, _ := f.store.WORepo().ListByMO(mo.ID)
	ctx := context.Background()

	_, err := f.woUC.Pause(ctx, operator, wos[0].ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "to_do → paused no existe")

	_, err = f.woUC.Complete(ctx, operator, wos[0].ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "to_do → completed debe pasar por started")

	// completed es terminal
	_, err = f.woUC.Start(ctx, operator, wos[0].ID)
	require.NoError(t, err)
	_, err = f.woUC.Complete(ctx, operator, wos[0].ID)
	require.NoError(t, err)
	_, err = f.woUC.Start(ctx, operator, wos[0].ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestWorkOrder_UltimaCompletadaDejaMOEnToClose(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	f.transition(t, mo.ID, entity.MoStatusInProgress)
	wos, _ := f.store.WORepo().ListByMO(mo.ID)
	require.Len(t, wos, 2)
	ctx := context.Background()

	// Completar la primera: la MO sigue en proceso
	_, err := f.woUC.Start(ctx, operator, wos[0].ID)
	require.NoError(t, err)
	_, err = f.woUC.Complete(ctx, operator, wos[0].ID)
	require.NoError(t, err)
	got, _ := f.store.MORepo().GetByID(mo.ID)
	assert.Equal(t, entity.MoStatusInProgress, got.Status, "quedan WOs pendientes")

	// Completar la segunda: la MO pasa sola a to_close
	_, err = f.woUC.Start(ctx, operator, wos[1].ID)
	require.NoError(t, err)
	_, err = f.woUC.Complete(ctx, operator, wos[1].ID)
	require.NoError(t, err)
	got, _ = f.store.MORepo().GetByID(mo.ID)
	assert.Equal(t, entity.MoStatusToClose, got.Status)
}

func TestWorkOrder_CompletarRivalNoRepiteLaTransicion(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	f.transition(t, mo.ID, entity.MoStatusInProgress)
	wos, _ := f.store.WORepo().ListByMO(mo.ID)
	ctx := context.Background()

	_, err := f.woUC.Start(ctx, operator, wos[0].ID)
	require.NoError(t, err)
	_, err = f.woUC.Complete(ctx, operator, wos[0].ID)
	require.NoError(t, err)
	_, err = f.woUC.Start(ctx, operator, wos[1].ID)
	require.NoError(t, err)

	// Un Complete rival gana la carrera sobre la última WO pendiente; la
	// relectura bloqueada de la segunda llamada la ve ya completada.
	f.store.BeforeTx = func() {
		_, err := f.woUC.Complete(ctx, operator, wos[1].ID)
		require.NoError(t, err)
	}
	_, err = f.woUC.Complete(ctx, operator, wos[1].ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	got, _ := f.store.MORepo().GetByID(mo.ID)
	assert.Equal(t, entity.MoStatusToClose, got.Status, "el auto-avance a to_close ocurre una sola vez")
}

func TestWorkOrder_AutoToCloseSoloConMOEnProceso(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusConfirmed)
	// MO queda en confirmed, no en in_progress
	wos, _ := f.store.WORepo().ListByMO(mo.ID)
	ctx := context.Background()

	for _, wo := range wos {
		_, err := f.woUC.Start(ctx, operator, wo.ID)
		require.NoError(t, err)
		_, err = f.woUC.Complete(ctx, operator, wo.ID)
		require.NoError(t, err)
	}
	got, _ := f.store.MORepo().GetByID(mo.ID)
	assert.Equal(t, entity.MoStatusConfirmed, got.Status,
		"el auto-avance a to_close solo aplica sobre órdenes en proceso")
}

func TestCreateManual_SobreMOViva(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")

	wo, err := f.woUC.CreateManual(context.Background(), planner, mo.ID, dto.CreateWORequest{
		Operation: "Inspección final",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.WoStatusToDo, wo.Status)
	assert.Equal(t, 60, wo.DurationPlannedMinutes, "sin duración se aplica la configurada")
}

func TestCreateManual_SobreMOTerminalRechazada(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")
	f.transition(t, mo.ID, entity.MoStatusCancelled)

	_, err := f.woUC.CreateManual(context.Background(), planner, mo.ID, dto.CreateWORequest{
		Operation: "Inspección",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateManual_SinOperacionRechazada(t *testing.T) {
	f := newFixture(t)
	mo := f.createMO(t, "1")

	_, err := f.woUC.CreateManual(context.Background(), planner, mo.ID, dto.CreateWORequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
