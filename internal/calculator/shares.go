// Package calculator holds the numeric policy of the ledger: equal-share
// assignment at bill creation and the owed-amount breakdown of a bill.
package calculator

import "github.com/billbook/billbook/internal/models"

// EqualShare returns the share assigned to each of n users splitting a bill
// equally: exactly 1/n, with no rounding. Floating-point shares are accepted
// as-is; three users get 1/3 each even though the shares do not sum to
// exactly 1. Zero users yield a zero share.
func EqualShare(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 1 / float64(n)
}

// UserOwed is one user's computed portion of a bill.
type UserOwed struct {
	// UserID identifies the user.
	UserID int64 `json:"userId"`

	// Name is the user's display name.
	Name string `json:"name"`

	// Share is the fraction recorded on the association row.
	Share float64 `json:"share"`

	// Amount is share × bill amount.
	Amount float64 `json:"amount"`
}

// Breakdown is the computed split of a bill across its attached users and
// products.
type Breakdown struct {
	// BillID identifies the bill.
	BillID int64 `json:"billId"`

	// Amount is the bill's total amount.
	Amount float64 `json:"amount"`

	// Users lists each attached user's owed amount.
	Users []UserOwed `json:"users"`

	// ShareTotal is the sum of all recorded shares. Not normalized: equal
	// splits leave it within floating-point error of 1, manual shares may
	// sum to anything.
	ShareTotal float64 `json:"shareTotal"`

	// ProductsSubtotal is the sum of price × quantity over the attached
	// products.
	ProductsSubtotal float64 `json:"productsSubtotal"`
}

// ComputeBreakdown derives the per-user owed amounts and product subtotal
// from a resolved bill. Dangling associations are already absent from the
// detail, so every row contributes.
func ComputeBreakdown(detail *models.BillDetail) *Breakdown {
	b := &Breakdown{
		BillID: detail.ID,
		Amount: detail.Amount,
		Users:  make([]UserOwed, 0, len(detail.Users)),
	}

	for _, u := range detail.Users {
		b.Users = append(b.Users, UserOwed{
			UserID: u.ID,
			Name:   u.Name,
			Share:  u.Share,
			Amount: u.Share * detail.Amount,
		})
		b.ShareTotal += u.Share
	}

	for _, p := range detail.Products {
		b.ProductsSubtotal += p.Price * p.Quantity
	}

	return b
}
