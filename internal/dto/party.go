package dto

import "github.com/ledgerworks/books_backend/internal/core/domain"

// CreateCustomerRequest defines the data needed to create a customer.
type CreateCustomerRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"omitempty,email"`
	DefaultARAccountID string `json:"defaultARAccountID" binding:"required"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID         string `json:"customerID"`
	Name               string `json:"name"`
	Email              string `json:"email,omitempty"`
	DefaultARAccountID string `json:"defaultARAccountID"`
}

// ToCustomerResponse converts a domain.Customer to its DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:         c.CustomerID,
		Name:               c.Name,
		Email:              c.Email,
		DefaultARAccountID: c.DefaultARAccountID,
	}
}

// CreateVendorRequest defines the data needed to create a vendor.
type CreateVendorRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"omitempty,email"`
	DefaultAPAccountID string `json:"defaultAPAccountID" binding:"required"`
}

// VendorResponse defines the data returned for a vendor.
type VendorResponse struct {
	VendorID           string `json:"vendorID"`
	Name               string `json:"name"`
	Email              string `json:"email,omitempty"`
	DefaultAPAccountID string `json:"defaultAPAccountID"`
}

// ToVendorResponse converts a domain.Vendor to its DTO.
func ToVendorResponse(v *domain.Vendor) VendorResponse {
	return VendorResponse{
		VendorID:           v.VendorID,
		Name:               v.Name,
		Email:              v.Email,
		DefaultAPAccountID: v.DefaultAPAccountID,
	}
}
