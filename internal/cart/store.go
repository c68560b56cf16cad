package cart

import "github.com/shopspring/decimal"

// Store holds the pending selections of one storefront session.
//
// Lines keep insertion order and there is at most one line per product.
// A Store is not safe for concurrent use; the owning session serialises access.
type Store struct {
	lines []Line
}

func NewStore() *Store {
	return &Store{}
}

// AddToCart increments the quantity of an existing line or appends a new one
// with quantity 1. Name and price are captured on creation and never refreshed.
func (s *Store) AddToCart(p Product) {
	if i := s.index(p.ID); i >= 0 {
		s.lines[i].Quantity++
		return
	}
	s.lines = append(s.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
		ImageURL:  p.ImageURL,
	})
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. Unknown products are ignored.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	i := s.index(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.removeAt(i)
		return
	}
	s.lines[i].Quantity = quantity
}

func (s *Store) RemoveFromCart(productID int64) {
	if i := s.index(productID); i >= 0 {
		s.removeAt(i)
	}
}

func (s *Store) ClearCart() {
	s.lines = nil
}

// ItemCount is the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Total is the exact sum of unit price times quantity. No rounding is applied.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Summary adds tax on top of Total using taxRate (0.10 for ten percent).
func (s *Store) Summary(taxRate decimal.Decimal) Summary {
	subtotal := s.Total()
	tax := subtotal.Mul(taxRate)
	return Summary{
		Items:    s.ItemCount(),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

func (s *Store) Line(productID int64) (Line, bool) {
	if i := s.index(productID); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

// Lines returns a copy of the lines in cart order.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Len() int {
	return len(s.lines)
}

func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// Restore replaces the content of the store with previously snapshotted
// lines. Duplicate products are merged and non-positive quantities dropped.
func (s *Store) Restore(lines []Line) {
	s.lines = nil
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := s.index(l.ProductID); i >= 0 {
			s.lines[i].Quantity += l.Quantity
			continue
		}
		s.lines = append(s.lines, l)
	}
}

func (s *Store) index(productID int64) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	if len(s.lines) == 0 {
		s.lines = nil
	}
}
