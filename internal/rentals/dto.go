package rentals

import "time"

// レンタル登録リクエスト
// id / rentedAt / returned は型チェックのためだけに受け取り，台帳側で上書きする
type CreateRentalRequest struct {
	ID       *int64     `json:"id,omitempty"`
	Customer string     `json:"customer"`
	Title    string     `json:"title"`
	StaffID  string     `json:"staffId"`
	Cost     float64    `json:"cost"`
	RentedAt *time.Time `json:"rentedAt,omitempty"`
	Returned *bool      `json:"returned,omitempty"`
}

// レンタルレスポンス
type RentalResponse struct {
	ID       int64     `json:"id"`
	Customer string    `json:"customer"`
	Title    string    `json:"title"`
	StaffID  string    `json:"staffId"`
	Cost     float64   `json:"cost"`
	RentedAt time.Time `json:"rentedAt"`
	Returned bool      `json:"returned"`
}

// 返却レスポンス
type ReturnResponse struct {
	Message string         `json:"message"`
	Rental  RentalResponse `json:"rental"`
}

// 取消レスポンス
type CancelResponse struct {
	Message string `json:"message"`
	Removed int    `json:"removed"`
}

func (r Rental) toDTO() RentalResponse {
	return RentalResponse{
		ID:       r.ID,
		Customer: r.Customer,
		Title:    r.Title,
		StaffID:  r.StaffID,
		Cost:     r.Cost,
		RentedAt: r.RentedAt,
		Returned: r.Returned,
	}
}

func toDTOs(rs []Rental) []RentalResponse {
	out := make([]RentalResponse, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		out = append(out, rs[i].toDTO())
	}
	return out
}
