package dto

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitMeasure string `json:"unit_measure,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos opcionales
// marcados explícitamente presentes/ausentes con punteros (no patch dinámico).
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	UnitMeasure *string `json:"unit_measure,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitMeasure string `json:"unit_measure,omitempty"`
}
