package models

// Meta holds the per-entity id counters. Each counter is the last id handed
// out for its entity; counters only ever grow, so ids are never reused even
// after deletions or restarts.
type Meta struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	BillID    int64 `json:"billId"`
}

// Snapshot is the serializable representation of the entire ledger: the five
// collections plus the id counters. It is the unit of persistence — backends
// load and save it wholesale.
type Snapshot struct {
	Users        []User        `json:"users"`
	Products     []Product     `json:"products"`
	Bills        []Bill        `json:"bills"`
	BillUsers    []BillUser    `json:"billUsers"`
	BillProducts []BillProduct `json:"billProducts"`
	Meta         Meta          `json:"meta"`
}

// NewSnapshot returns an empty snapshot with zeroed counters, the state of a
// ledger that has never been written to.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:        []User{},
		Products:     []Product{},
		Bills:        []Bill{},
		BillUsers:    []BillUser{},
		BillProducts: []BillProduct{},
	}
}

// NextUserID advances the user counter and returns the new id.
func (m *Meta) NextUserID() int64 {
	m.UserID++
	return m.UserID
}

// NextProductID advances the product counter and returns the new id.
func (m *Meta) NextProductID() int64 {
	m.ProductID++
	return m.ProductID
}

// NextBillID advances the bill counter and returns the new id.
func (m *Meta) NextBillID() int64 {
	m.BillID++
	return m.BillID
}
