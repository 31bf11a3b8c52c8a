package dto

import (
	"github.com/mrops-br/financial-products/internal/domain"
)

// ProductRequest is the body of create and update calls
type ProductRequest struct {
	ID           string `json:"id" validate:"min=3,max=10"`
	Name         string `json:"name" validate:"min=5,max=100"`
	Description  string `json:"description" validate:"min=10,max=200"`
	Logo         string `json:"logo" validate:"required"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision"`
}

// ToDomain converts the request into a domain Product
func (r *ProductRequest) ToDomain() *domain.Product {
	p := domain.Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Logo:         r.Logo,
		DateRelease:  r.DateRelease,
		DateRevision: r.DateRevision,
	}.Normalized()
	return &p
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision"`
}

// ListResponse wraps the product list under "data"
type ListResponse struct {
	Data []*ProductResponse `json:"data"`
}

// MutationResponse is returned by create and update
type MutationResponse struct {
	Message string           `json:"message"`
	Data    *ProductResponse `json:"data"`
}

// MessageResponse is returned by delete
type MessageResponse struct {
	Message string `json:"message"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease,
		DateRevision: p.DateRevision,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
