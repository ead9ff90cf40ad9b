package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/billbook/billbook/internal/calculator"
	"github.com/billbook/billbook/internal/models"
)

// CreateBill adds a bill and bulk-attaches the supplied user and product
// ids. Users each receive an equal share of 1/n over the normalized id
// list; products attach with quantity 1.
//
// Bulk attach trusts the caller-supplied ids: unlike AttachUser and
// AttachProduct, it does not check that they reference existing entities.
// BillDetail drops any row left dangling, so the asymmetry stays harmless.
func (s *Store) CreateBill(ctx context.Context, title string, amount float64, date string, userIDs, productIDs []int64) (*models.Bill, error) {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" || date == "" {
		return nil, fmt.Errorf("%w: title, amount, and date are required", ErrInvalidInput)
	}

	bill := models.Bill{
		ID:        s.snap.Meta.NextBillID(),
		Title:     title,
		Amount:    amount,
		Date:      date,
		CreatedAt: time.Now(),
	}
	s.snap.Bills = append(s.snap.Bills, bill)

	users := normalizeIDs(userIDs)
	share := calculator.EqualShare(len(users))
	for _, userID := range users {
		s.snap.BillUsers = append(s.snap.BillUsers, models.BillUser{
			BillID: bill.ID,
			UserID: userID,
			Share:  share,
		})
	}

	for _, productID := range normalizeIDs(productIDs) {
		s.snap.BillProducts = append(s.snap.BillProducts, models.BillProduct{
			BillID:    bill.ID,
			ProductID: productID,
			Quantity:  1,
		})
	}

	if err := s.persist(); err != nil {
		return nil, err
	}
	return &bill, nil
}

// GetBill retrieves a bill by id, without its associations.
func (s *Store) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.snap.Bills {
		if s.snap.Bills[i].ID == id {
			bill := s.snap.Bills[i]
			return &bill, nil
		}
	}
	return nil, fmt.Errorf("%w: bill %d", ErrNotFound, id)
}

// UpdateBill replaces a bill's title, amount, and date. Associations are
// untouched.
func (s *Store) UpdateBill(ctx context.Context, id int64, title string, amount float64, date string) (*models.Bill, error) {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" || date == "" {
		return nil, fmt.Errorf("%w: title, amount, and date are required", ErrInvalidInput)
	}

	idx := -1
	for i := range s.snap.Bills {
		if s.snap.Bills[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: bill %d", ErrNotFound, id)
	}

	s.snap.Bills[idx].Title = title
	s.snap.Bills[idx].Amount = amount
	s.snap.Bills[idx].Date = date
	bill := s.snap.Bills[idx]

	if err := s.persist(); err != nil {
		return nil, err
	}
	return &bill, nil
}

// DeleteBill removes a bill and cascades removal of all its bill-user and
// bill-product rows.
func (s *Store) DeleteBill(ctx context.Context, id int64) error {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	bills := s.snap.Bills[:0]
	for _, b := range s.snap.Bills {
		if b.ID == id {
			found = true
			continue
		}
		bills = append(bills, b)
	}
	if !found {
		return fmt.Errorf("%w: bill %d", ErrNotFound, id)
	}
	s.snap.Bills = bills

	billUsers := s.snap.BillUsers[:0]
	for _, bu := range s.snap.BillUsers {
		if bu.BillID == id {
			continue
		}
		billUsers = append(billUsers, bu)
	}
	s.snap.BillUsers = billUsers

	billProducts := s.snap.BillProducts[:0]
	for _, bp := range s.snap.BillProducts {
		if bp.BillID == id {
			continue
		}
		billProducts = append(billProducts, bp)
	}
	s.snap.BillProducts = billProducts

	return s.persist()
}

// ListBills returns all bills, most recently created first.
func (s *Store) ListBills(ctx context.Context) ([]models.Bill, error) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	bills := s.snap.Bills
	order := newestFirst(len(bills),
		func(i int) time.Time { return bills[i].CreatedAt },
		func(i int) int64 { return bills[i].ID },
	)
	out := make([]models.Bill, len(bills))
	for i, idx := range order {
		out[i] = bills[idx]
	}
	return out, nil
}

// AttachUser links a user to a bill. Both must exist. If the pair is
// already present the call is a no-op and the existing share is kept;
// otherwise the row is inserted with the given share.
func (s *Store) AttachUser(ctx context.Context, billID, userID int64, share float64) error {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.billExists(billID) || !s.userExists(userID) {
		return fmt.Errorf("%w: bill or user not found", ErrNotFound)
	}

	for _, bu := range s.snap.BillUsers {
		if bu.BillID == billID && bu.UserID == userID {
			return nil
		}
	}

	s.snap.BillUsers = append(s.snap.BillUsers, models.BillUser{
		BillID: billID,
		UserID: userID,
		Share:  share,
	})
	return s.persist()
}

// DetachUser removes the (bill, user) pair if present. A missing pair is
// not an error.
func (s *Store) DetachUser(ctx context.Context, billID, userID int64) error {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	billUsers := s.snap.BillUsers[:0]
	for _, bu := range s.snap.BillUsers {
		if bu.BillID == billID && bu.UserID == userID {
			continue
		}
		billUsers = append(billUsers, bu)
	}
	s.snap.BillUsers = billUsers

	return s.persist()
}

// AttachProduct links a product to a bill. Both must exist. If the pair is
// already present the call is a no-op and the existing quantity is kept;
// otherwise the row is inserted with the given quantity.
func (s *Store) AttachProduct(ctx context.Context, billID, productID int64, quantity float64) error {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.billExists(billID) || !s.productExists(productID) {
		return fmt.Errorf("%w: bill or product not found", ErrNotFound)
	}

	for _, bp := range s.snap.BillProducts {
		if bp.BillID == billID && bp.ProductID == productID {
			return nil
		}
	}

	s.snap.BillProducts = append(s.snap.BillProducts, models.BillProduct{
		BillID:    billID,
		ProductID: productID,
		Quantity:  quantity,
	})
	return s.persist()
}

// DetachProduct removes the (bill, product) pair if present. A missing pair
// is not an error.
func (s *Store) DetachProduct(ctx context.Context, billID, productID int64) error {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	billProducts := s.snap.BillProducts[:0]
	for _, bp := range s.snap.BillProducts {
		if bp.BillID == billID && bp.ProductID == productID {
			continue
		}
		billProducts = append(billProducts, bp)
	}
	s.snap.BillProducts = billProducts

	return s.persist()
}

// BillDetail resolves a bill's association rows into user and product
// projections. Rows whose referenced entity no longer exists are silently
// dropped.
func (s *Store) BillDetail(ctx context.Context, id int64) (*models.BillDetail, error) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bill *models.Bill
	for i := range s.snap.Bills {
		if s.snap.Bills[i].ID == id {
			b := s.snap.Bills[i]
			bill = &b
			break
		}
	}
	if bill == nil {
		return nil, fmt.Errorf("%w: bill %d", ErrNotFound, id)
	}

	detail := &models.BillDetail{
		Bill:     *bill,
		Users:    []models.BillUserDetail{},
		Products: []models.BillProductDetail{},
	}

	for _, bu := range s.snap.BillUsers {
		if bu.BillID != id {
			continue
		}
		for i := range s.snap.Users {
			if s.snap.Users[i].ID == bu.UserID {
				detail.Users = append(detail.Users, models.BillUserDetail{
					User:  s.snap.Users[i],
					Share: bu.Share,
				})
				break
			}
		}
	}

	for _, bp := range s.snap.BillProducts {
		if bp.BillID != id {
			continue
		}
		for i := range s.snap.Products {
			if s.snap.Products[i].ID == bp.ProductID {
				detail.Products = append(detail.Products, models.BillProductDetail{
					Product:  s.snap.Products[i],
					Quantity: bp.Quantity,
				})
				break
			}
		}
	}

	return detail, nil
}

func (s *Store) billExists(id int64) bool {
	for i := range s.snap.Bills {
		if s.snap.Bills[i].ID == id {
			return true
		}
	}
	return false
}

func (s *Store) userExists(id int64) bool {
	for i := range s.snap.Users {
		if s.snap.Users[i].ID == id {
			return true
		}
	}
	return false
}

func (s *Store) productExists(id int64) bool {
	for i := range s.snap.Products {
		if s.snap.Products[i].ID == id {
			return true
		}
	}
	return false
}

// normalizeIDs drops non-positive ids and duplicates, keeping the first
// occurrence. The result's length is the divisor for equal shares.
func normalizeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
