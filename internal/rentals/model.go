package rentals

import "time"

// Rental は台帳に記録される1件のレンタル
type Rental struct {
	ID       int64
	Customer string
	Title    string
	StaffID  string
	Cost     float64
	RentedAt time.Time
	Returned bool
}

// Pending: 未返却かどうか
func (r Rental) Pending() bool { return !r.Returned }
