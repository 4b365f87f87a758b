package rentals

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// -------------- Error model & mapping --------------

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	err     error
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func (e *APIError) Unwrap() error { return e.err }

func ErrInvalid(msg string) *APIError { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError {
	return &APIError{Code: CodeNotFound, Message: msg, err: ErrRentalNotFound}
}
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

// -------------- Service --------------

// Service は台帳の操作を HTTP 層向けの DTO に変換する。
// 台帳は呼び出し側が所有し，注入する。
type Service struct {
	ledger *Ledger
}

func NewService(ledger *Ledger) *Service {
	return &Service{ledger: ledger}
}

// POST /rentar
func (s *Service) CreateRental(ctx context.Context, in CreateRentalRequest) (RentalResponse, error) {
	r := s.ledger.Create(Rental{
		Customer: in.Customer,
		Title:    in.Title,
		StaffID:  in.StaffID,
		Cost:     in.Cost,
	})
	log.Printf("[INFO] rental created id=%d customer=%q title=%q staff=%q", r.ID, r.Customer, r.Title, r.StaffID)
	return r.toDTO(), nil
}

// PUT /devolver/:id
func (s *Service) ReturnRental(ctx context.Context, id int64) (ReturnResponse, error) {
	r, err := s.ledger.Return(id)
	if err != nil {
		if errors.Is(err, ErrRentalNotFound) {
			log.Printf("[WARN] return: rental id=%d not found", id)
			return ReturnResponse{}, ErrNotFound("rental not found")
		}
		return ReturnResponse{}, ErrInternal(err.Error())
	}
	log.Printf("[INFO] rental returned id=%d title=%q", r.ID, r.Title)
	return ReturnResponse{
		Message: fmt.Sprintf("DVD '%s' returned", r.Title),
		Rental:  r.toDTO(),
	}, nil
}

// DELETE /cancelar/:id
func (s *Service) CancelRental(ctx context.Context, id int64) (CancelResponse, error) {
	n, err := s.ledger.Cancel(id)
	if err != nil {
		if errors.Is(err, ErrRentalNotFound) {
			log.Printf("[WARN] cancel: rental id=%d not found", id)
			return CancelResponse{}, ErrNotFound("rental not found")
		}
		return CancelResponse{}, ErrInternal(err.Error())
	}
	if n > 1 {
		log.Printf("[WARN] cancel: id=%d matched %d rentals", id, n)
	}
	log.Printf("[INFO] rental cancelled id=%d", id)
	return CancelResponse{Message: "rental cancelled", Removed: n}, nil
}

// GET /reporte/cliente/:nombre
func (s *Service) ListByCustomer(ctx context.Context, customer string) []RentalResponse {
	return toDTOs(s.ledger.ListByCustomer(customer))
}

// GET /reporte/pendientes
func (s *Service) ListPending(ctx context.Context) []RentalResponse {
	return toDTOs(s.ledger.ListPending())
}

// GET /reporte/general （populares / ganancias も同じ生データを返す）
func (s *Service) ListAll(ctx context.Context) []RentalResponse {
	return toDTOs(s.ledger.ListAll())
}

// -------------- Error helpers for handler --------------

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}
