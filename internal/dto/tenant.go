package dto

import "github.com/ledgerworks/books_backend/internal/core/domain"

// CreateTenantRequest defines the data needed to create a tenant.
type CreateTenantRequest struct {
	Name               string `json:"name" binding:"required"`
	FunctionalCurrency string `json:"functionalCurrency" binding:"required,len=3"`
}

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID           string `json:"tenantID"`
	Name               string `json:"name"`
	FunctionalCurrency string `json:"functionalCurrency"`
}

// ToTenantResponse converts a domain.Tenant to its DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:           t.TenantID,
		Name:               t.Name,
		FunctionalCurrency: t.FunctionalCurrency,
	}
}
