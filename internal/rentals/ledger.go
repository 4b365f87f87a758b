package rentals

import (
	"errors"
	"sync"
	"time"
)

// ErrRentalNotFound: 指定IDのレンタルが台帳に存在しない
var ErrRentalNotFound = errors.New("rental not found")

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Ledger はレンタル記録をメモリ上に保持する。
// 全操作は単一の mu で直列化する（読み取りも含む）。
type Ledger struct {
	mu      sync.Mutex
	rentals []Rental
	clock   Clock
}

func NewLedger(clock Clock) *Ledger {
	if clock == nil {
		clock = realClock{}
	}
	return &Ledger{clock: clock}
}

// Create: ID・貸出日時・返却フラグは台帳側で確定させる。
// ID は「現在件数+1」。取消後に作成すると生存中の記録とIDが重複しうる。
func (l *Ledger) Create(in Rental) Rental {
	l.mu.Lock()
	defer l.mu.Unlock()

	in.ID = int64(len(l.rentals)) + 1
	in.RentedAt = l.clock.Now()
	in.Returned = false

	l.rentals = append(l.rentals, in)
	return in
}

// Return: 挿入順で最初に一致した記録を返却済みにする。返却済みでもエラーにしない。
func (l *Ledger) Return(id int64) (Rental, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.rentals {
		if l.rentals[i].ID == id {
			l.rentals[i].Returned = true
			return l.rentals[i], nil
		}
	}
	return Rental{}, ErrRentalNotFound
}

// Cancel: 一致する記録をすべて削除し，削除件数を返す
func (l *Ledger) Cancel(id int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.rentals[:0]
	for _, r := range l.rentals {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	removed := len(l.rentals) - len(kept)
	// 末尾の残骸をゼロ値にしておく
	for i := len(kept); i < len(l.rentals); i++ {
		l.rentals[i] = Rental{}
	}
	l.rentals = kept

	if removed == 0 {
		return 0, ErrRentalNotFound
	}
	return removed, nil
}

// ListByCustomer: customer の完全一致（大文字小文字を区別）
func (l *Ledger) ListByCustomer(customer string) []Rental {
	return l.filter(func(r Rental) bool { return r.Customer == customer })
}

func (l *Ledger) ListPending() []Rental {
	return l.filter(Rental.Pending)
}

func (l *Ledger) ListAll() []Rental {
	return l.filter(func(Rental) bool { return true })
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rentals)
}

// filter はロック下でスナップショットを作る。呼び出し側に内部スライスは渡さない。
func (l *Ledger) filter(keep func(Rental) bool) []Rental {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Rental, 0, len(l.rentals))
	for _, r := range l.rentals {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
