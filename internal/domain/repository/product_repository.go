package repository

import "github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"

// ProductRepository puerto de persistencia para productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error
	// IsReferenced indica si el producto aparece en BOMs, órdenes o ledger
	// (bloquea la eliminación).
	IsReferenced(id string) (bool, error)
}
