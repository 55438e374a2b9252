package repository

import "github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"

// BOMRepository puerto de persistencia para la lista de materiales.
// El set de líneas por producto se trata como unidad: ReplaceSet borra e
// inserta atómicamente (llamar dentro de una transacción).
type BOMRepository interface {
	ListByProduct(productID string) ([]*entity.BOMEntry, error)
	Exists(productID string) (bool, error)
	ReplaceSet(productID string, entries []*entity.BOMEntry) error
	DeleteByProduct(productID string) error
}
