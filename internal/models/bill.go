package models

import "time"

// Bill represents an expense split among users.
type Bill struct {
	// ID is the unique identifier for the bill, assigned from the
	// Meta.BillID counter.
	ID int64 `json:"id"`

	// Title is the human-readable name for the bill. Never empty.
	Title string `json:"title"`

	// Amount is the total bill amount.
	Amount float64 `json:"amount"`

	// Date is the caller-supplied date of the expense. The ledger treats
	// it as an opaque string.
	Date string `json:"date"`

	// CreatedAt is the creation timestamp. Immutable after creation.
	CreatedAt time.Time `json:"createdAt"`
}

// BillUser links a user to a bill with that user's fractional share.
// The (BillID, UserID) pair is unique.
type BillUser struct {
	BillID int64   `json:"billId"`
	UserID int64   `json:"userId"`
	Share  float64 `json:"share"`
}

// BillProduct links a product to a bill with a quantity.
// The (BillID, ProductID) pair is unique.
type BillProduct struct {
	BillID    int64   `json:"billId"`
	ProductID int64   `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

// BillUserDetail is a user projected into a bill, carrying the share from
// the association row.
type BillUserDetail struct {
	User
	Share float64 `json:"share"`
}

// BillProductDetail is a product projected into a bill, carrying the
// quantity from the association row.
type BillProductDetail struct {
	Product
	Quantity float64 `json:"quantity"`
}

// BillDetail is a bill enriched with its resolved users and products.
// Associations whose referenced entity no longer exists are omitted.
type BillDetail struct {
	Bill
	Users    []BillUserDetail    `json:"users"`
	Products []BillProductDetail `json:"products"`
}
