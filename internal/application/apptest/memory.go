// Package apptest provee repositorios en memoria y un TxRunner sintético para
// los tests unitarios de la capa de aplicación. No hay rollback real: los
// tests verifican la lógica de los casos de uso, no el aislamiento de la DB.
package apptest

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/ports"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	Products    map[string]*entity.Product
	BOMs        map[string][]*entity.BOMEntry
	Orders      map[string]*entity.ManufacturingOrder
	WorkOrders  map[string]*entity.WorkOrder
	woOrder     []string // orden de inserción de WorkOrders
	Ledger      []*entity.LedgerEntry
	Stock       map[string]*entity.StockSnapshot
	WorkCenters map[string]*entity.WorkCenter
	Users       map[string]*entity.User

	// BeforeTx, si está definido, se ejecuta justo antes del callback de
	// TxRunner.Run. Permite intercalar una escritura rival entre la
	// pre-verificación de un caso de uso y sus efectos transaccionales.
	BeforeTx func()
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		Products:    map[string]*entity.Product{},
		BOMs:        map[string][]*entity.BOMEntry{},
		Orders:      map[string]*entity.ManufacturingOrder{},
		WorkOrders:  map[string]*entity.WorkOrder{},
		Stock:       map[string]*entity.StockSnapshot{},
		WorkCenters: map[string]*entity.WorkCenter{},
		Users:       map[string]*entity.User{},
	}
}

// SeedProduct registra un producto con stock inicial.
func (s *Store) SeedProduct(id, name string, stock decimal.Decimal) {
	s.Products[id] = &entity.Product{ID: id, Name: name}
	if !stock.IsZero() {
		s.Stock[id] = &entity.StockSnapshot{ProductID: id, Quantity: stock}
	}
}

// Repos construye el set de repositorios sobre el Store.
func (s *Store) Repos() ports.TxRepos {
	return ports.TxRepos{
		Products:   &productRepo{s},
		BOM:        &bomRepo{s},
		Orders:     &moRepo{s},
		WorkOrders: &woRepo{s},
		Ledger:     &ledgerRepo{s},
		Stock:      &stockRepo{s},
	}
}

// TxRunner devuelve un TxRunner que ejecuta el callback directamente sobre el
// Store (misma semántica de repos-atados-a-tx, sin transacción real).
func (s *Store) TxRunner() ports.TxRunner {
	return &txRunner{s}
}

type txRunner struct{ s *Store }

func (t *txRunner) Run(_ context.Context, fn func(r ports.TxRepos) error) error {
	if hook := t.s.BeforeTx; hook != nil {
		t.s.BeforeTx = nil
		hook()
	}
	return fn(t.s.Repos())
}

// ProductRepo / BOMRepo / etc. exponen los adaptadores individuales para
// construir casos de uso que reciben puertos sueltos.
func (s *Store) ProductRepo() repository.ProductRepository { return &productRepo{s} }
func (s *Store) BOMRepo() repository.BOMRepository         { return &bomRepo{s} }
func (s *Store) MORepo() repository.ManufacturingOrderRepository { return &moRepo{s} }
func (s *Store) WORepo() repository.WorkOrderRepository          { return &woRepo{s} }
func (s *Store) LedgerRepo() repository.LedgerRepository         { return &ledgerRepo{s} }
func (s *Store) StockRepo() repository.StockRepository           { return &stockRepo{s} }
func (s *Store) WorkCenterRepo() repository.WorkCenterRepository { return &workCenterRepo{s} }

// ── productos ────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Products[p.ID] = p
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Products[id], nil
}

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.Products))
	for _, p := range r.s.Products {
		out = append(out, p)
	}
	return out, nil
}

func (r *productRepo) Update(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Products[p.ID] = p
	return nil
}

func (r *productRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Products, id)
	return nil
}

func (r *productRepo) IsReferenced(id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for productID, entries := range r.s.BOMs {
		if productID == id {
			return true, nil
		}
		for _, e := range entries {
			if e.ComponentID == id {
				return true, nil
			}
		}
	}
	for _, mo := range r.s.Orders {
		if mo.ProductID == id {
			return true, nil
		}
	}
	for _, e := range r.s.Ledger {
		if e.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

// ── BOM ──────────────────────────────────────────────────────────────────────

type bomRepo struct{ s *Store }

func (r *bomRepo) ListByProduct(productID string) ([]*entity.BOMEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.BOMs[productID], nil
}

func (r *bomRepo) Exists(productID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.BOMs[productID]) > 0, nil
}

func (r *bomRepo) ReplaceSet(productID string, entries []*entity.BOMEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.BOMs[productID] = entries
	return nil
}

func (r *bomRepo) DeleteByProduct(productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.BOMs, productID)
	return nil
}

// ── órdenes de fabricación ───────────────────────────────────────────────────

type moRepo struct{ s *Store }

func (r *moRepo) Create(mo *entity.ManufacturingOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Orders[mo.ID] = mo
	return nil
}

func (r *moRepo) GetByID(id string) (*entity.ManufacturingOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Orders[id], nil
}

// GetForUpdate no bloquea nada aquí: el Store es síncrono y la relectura ya
// observa cualquier escritura rival intercalada vía BeforeTx.
func (r *moRepo) GetForUpdate(id string) (*entity.ManufacturingOrder, error) {
	return r.GetByID(id)
}

func (r *moRepo) List(limit, offset int) ([]*entity.ManufacturingOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.ManufacturingOrder, 0, len(r.s.Orders))
	for _, mo := range r.s.Orders {
		out = append(out, mo)
	}
	return out, nil
}

func (r *moRepo) Update(mo *entity.ManufacturingOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Orders[mo.ID] = mo
	return nil
}

func (r *moRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Orders, id)
	return nil
}

func (r *moRepo) CountActiveByProduct(productID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, mo := range r.s.Orders {
		if mo.ProductID == productID && !mo.Status.IsTerminal() {
			n++
		}
	}
	return n, nil
}

func (r *moRepo) CountActiveByAssignee(userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, mo := range r.s.Orders {
		if mo.AssignedToID != nil && *mo.AssignedToID == userID && !mo.Status.IsTerminal() {
			n++
		}
	}
	return n, nil
}

// ── órdenes de trabajo ───────────────────────────────────────────────────────

type woRepo struct{ s *Store }

func (r *woRepo) Create(wo *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.WorkOrders[wo.ID] = wo
	r.s.woOrder = append(r.s.woOrder, wo.ID)
	return nil
}

func (r *woRepo) BulkCreate(wos []*entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, wo := range wos {
		r.s.WorkOrders[wo.ID] = wo
		r.s.woOrder = append(r.s.woOrder, wo.ID)
	}
	return nil
}

func (r *woRepo) GetByID(id string) (*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.WorkOrders[id], nil
}

func (r *woRepo) GetForUpdate(id string) (*entity.WorkOrder, error) {
	return r.GetByID(id)
}

func (r *woRepo) ListByMO(moID string) ([]*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.WorkOrder
	for _, id := range r.s.woOrder {
		if wo, ok := r.s.WorkOrders[id]; ok && wo.MoID == moID {
			out = append(out, wo)
		}
	}
	return out, nil
}

func (r *woRepo) Update(wo *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.WorkOrders[wo.ID] = wo
	return nil
}

func (r *woRepo) DeleteByMO(moID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.woOrder[:0]
	for _, id := range r.s.woOrder {
		if wo, ok := r.s.WorkOrders[id]; ok && wo.MoID == moID {
			delete(r.s.WorkOrders, id)
			continue
		}
		kept = append(kept, id)
	}
	r.s.woOrder = kept
	return nil
}

func (r *woRepo) CountActiveByWorkCenter(workCenterID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, wo := range r.s.WorkOrders {
		if wo.WorkCenterID != nil && *wo.WorkCenterID == workCenterID && wo.Status != entity.WoStatusCompleted {
			n++
		}
	}
	return n, nil
}

// ── ledger ───────────────────────────────────────────────────────────────────

type ledgerRepo struct{ s *Store }

func (r *ledgerRepo) Append(entry *entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Ledger = append(r.s.Ledger, entry)
	return nil
}

func (r *ledgerRepo) SumMovements(productID string) (decimal.Decimal, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totalIn, totalOut := decimal.Zero, decimal.Zero
	for _, e := range r.s.Ledger {
		if e.ProductID != productID {
			continue
		}
		switch e.MovementType {
		case entity.MovementTypeIn:
			totalIn = totalIn.Add(e.Quantity)
		case entity.MovementTypeOut:
			totalOut = totalOut.Add(e.Quantity)
		}
	}
	return totalIn, totalOut, nil
}

func (r *ledgerRepo) ListByProduct(productID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, e := range r.s.Ledger {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── snapshot de stock ────────────────────────────────────────────────────────

type stockRepo struct{ s *Store }

func (r *stockRepo) Get(productID string) (*entity.StockSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if snap, ok := r.s.Stock[productID]; ok {
		cp := *snap
		return &cp, nil
	}
	return &entity.StockSnapshot{ProductID: productID, Quantity: decimal.Zero}, nil
}

func (r *stockRepo) GetForUpdate(productID string) (*entity.StockSnapshot, error) {
	return r.Get(productID)
}

func (r *stockRepo) Upsert(snapshot *entity.StockSnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *snapshot
	r.s.Stock[snapshot.ProductID] = &cp
	return nil
}

// ── centros de trabajo ───────────────────────────────────────────────────────

type workCenterRepo struct{ s *Store }

func (r *workCenterRepo) Create(wc *entity.WorkCenter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.WorkCenters[wc.ID] = wc
	return nil
}

func (r *workCenterRepo) GetByID(id string) (*entity.WorkCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.WorkCenters[id], nil
}

func (r *workCenterRepo) List(limit, offset int) ([]*entity.WorkCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.WorkCenter, 0, len(r.s.WorkCenters))
	for _, wc := range r.s.WorkCenters {
		out = append(out, wc)
	}
	return out, nil
}

func (r *workCenterRepo) Update(wc *entity.WorkCenter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.WorkCenters[wc.ID] = wc
	return nil
}

func (r *workCenterRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.WorkCenters, id)
	return nil
}
