package dto

import (
	"time"

	"github.com/ledgerworks/books_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new ledger account.
type CreateAccountRequest struct {
	Code             string               `json:"code" binding:"required"`
	Name             string               `json:"name" binding:"required"`
	AccountType      domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	NormalBalance    domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
	ParentAccountID  *string              `json:"parentAccountID"`
	Description      string               `json:"description"`
	IsControlAccount bool                 `json:"isControlAccount"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string               `json:"accountID"`
	Code             string               `json:"code"`
	Name             string               `json:"name"`
	AccountType      domain.AccountType   `json:"accountType"`
	NormalBalance    domain.NormalBalance `json:"normalBalance"`
	ParentAccountID  string               `json:"parentAccountID,omitempty"`
	Description      string               `json:"description,omitempty"`
	IsActive         bool                 `json:"isActive"`
	IsControlAccount bool                 `json:"isControlAccount"`
	CreatedAt        time.Time            `json:"createdAt"`
	CreatedBy        string               `json:"createdBy"`
}

// ListAccountsResponse wraps a page of accounts with the next-page token.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToAccountResponse converts a domain.Account to its DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        a.AccountID,
		Code:             a.Code,
		Name:             a.Name,
		AccountType:      a.AccountType,
		NormalBalance:    a.NormalBalance,
		ParentAccountID:  a.ParentAccountID,
		Description:      a.Description,
		IsActive:         a.IsActive,
		IsControlAccount: a.IsControlAccount,
		CreatedAt:        a.CreatedAt,
		CreatedBy:        a.CreatedBy,
	}
}
