package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

// legalMoEdges las aristas permitidas de la máquina de estados de la MO.
// Cualquier par (origen, destino) fuera de esta lista debe rechazarse.
var legalMoEdges = map[entity.MoStatus][]entity.MoStatus{
	entity.MoStatusDraft:      {entity.MoStatusConfirmed, entity.MoStatusCancelled},
	entity.MoStatusConfirmed:  {entity.MoStatusInProgress, entity.MoStatusCancelled},
	entity.MoStatusInProgress: {entity.MoStatusDone, entity.MoStatusCancelled},
	entity.MoStatusToClose:    {entity.MoStatusDone, entity.MoStatusCancelled},
	entity.MoStatusDone:       {},
	entity.MoStatusCancelled:  {},
}

// Recorre todos los pares (origen, destino) de la enumeración y verifica que
// la tabla acepte exactamente las aristas legales y rechace el resto.
func TestMoStatus_TablaDeTransicionesCompleta(t *testing.T) {
	for _, from := range entity.MoStatuses() {
		for _, to := range entity.MoStatuses() {
			legal := false
			for _, e := range legalMoEdges[from] {
				if e == to {
					legal = true
					break
				}
			}
			got := from.CanTransitionTo(to)
			assert.Equal(t, legal, got, "transición %s → %s: esperado legal=%v", from, to, legal)
		}
	}
}

func TestMoStatus_AutoTransicionSiempreIlegal(t *testing.T) {
	for _, s := range entity.MoStatuses() {
		assert.False(t, s.CanTransitionTo(s), "auto-transición %s → %s debe ser ilegal", s, s)
	}
}

func TestMoStatus_EstadosTerminalesSinSalida(t *testing.T) {
	assert.True(t, entity.MoStatusDone.IsTerminal())
	assert.True(t, entity.MoStatusCancelled.IsTerminal())
	assert.False(t, entity.MoStatusDraft.IsTerminal())
	assert.False(t, entity.MoStatusToClose.IsTerminal())
}

func TestMoStatus_ValorDesconocidoNoEsValido(t *testing.T) {
	invalid := entity.MoStatus("en_espera")
	assert.False(t, invalid.IsValid())
	assert.False(t, invalid.IsTerminal(), "un valor inválido no debe reportarse terminal")
	for _, to := range entity.MoStatuses() {
		assert.False(t, invalid.CanTransitionTo(to))
	}
}

func TestWoStatus_TablaDeTransiciones(t *testing.T) {
	cases := []struct {
		from, to entity.WoStatus
		legal    bool
	}{
		{entity.WoStatusToDo, entity.WoStatusStarted, true},
		{entity.WoStatusStarted, entity.WoStatusPaused, true},
		{entity.WoStatusStarted, entity.WoStatusCompleted, true},
		{entity.WoStatusPaused, entity.WoStatusStarted, true},
		{entity.WoStatusPaused, entity.WoStatusCompleted, true},
		// Ilegales notables
		{entity.WoStatusToDo, entity.WoStatusPaused, false},
		{entity.WoStatusToDo, entity.WoStatusCompleted, false},
		{entity.WoStatusCompleted, entity.WoStatusStarted, false},
		{entity.WoStatusCompleted, entity.WoStatusToDo, false},
		{entity.WoStatusStarted, entity.WoStatusToDo, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.legal, c.from.CanTransitionTo(c.to), "transición %s → %s", c.from, c.to)
	}
}

func TestActor_Capacidades(t *testing.T) {
	admin := entity.Actor{UserID: "u1", Role: entity.RoleAdmin}
	planner := entity.Actor{UserID: "u2", Role: entity.RolePlanner}
	operator := entity.Actor{UserID: "u3", Role: entity.RoleOperator}
	anon := entity.Actor{}

	assert.True(t, admin.CanManage())
	assert.True(t, planner.CanManage())
	assert.False(t, operator.CanManage(), "operator no gestiona órdenes ni BOMs")

	assert.True(t, admin.CanOperate())
	assert.True(t, operator.CanOperate())
	assert.False(t, anon.CanOperate())
	assert.True(t, anon.IsZero())
}
