package models

import "time"

// Product represents a purchasable item that can appear on bills.
type Product struct {
	// ID is the unique identifier for the product, assigned from the
	// Meta.ProductID counter.
	ID int64 `json:"id"`

	// Name is the display name of the product. Never empty.
	Name string `json:"name"`

	// Price is the unit price of the product.
	Price float64 `json:"price"`

	// Description is optional free text; defaults to "".
	Description string `json:"description"`

	// CreatedAt is the creation timestamp. Immutable after creation.
	CreatedAt time.Time `json:"createdAt"`
}
