package dto

import (
	"time"

	"github.com/mobilebank/ledger_backend/internal/core/domain"
)

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account minus the credential hash.
type AccountResponse struct {
	AccountID string    `json:"accountID"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	Balance   int64     `json:"balance"` // minor currency units
	CreatedAt time.Time `json:"createdAt"`
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	Username string `json:"username"`
	Balance  int64  `json:"balance"` // minor currency units
}

// ListAccountsParams defines query parameters for the admin account listing.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the admin account listing.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
// The password hash is deliberately not representable here.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		Username:  acc.Username,
		Email:     acc.Email,
		Mobile:    acc.Mobile,
		Balance:   acc.Balance,
		CreatedAt: acc.CreatedAt,
	}
}

// ToListAccountsResponse converts a slice of domain.Account to the admin listing DTO.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}
