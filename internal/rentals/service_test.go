package rentals_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dvd-rental-backend/internal/rentals"
)

func Test_Service_NotFoundMapsTo404(t *testing.T) {
	svc := rentals.NewService(newLedger())
	ctx := context.Background()

	_, err := svc.ReturnRental(ctx, 7)
	require.Error(t, err)
	assert.Equal(t, 404, rentals.ToHTTPStatus(err))
	assert.ErrorIs(t, err, rentals.ErrRentalNotFound)

	var api *rentals.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, rentals.CodeNotFound, api.Code)

	_, err = svc.CancelRental(ctx, 7)
	assert.Equal(t, 404, rentals.ToHTTPStatus(err))
}

func Test_Service_ToHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, rentals.ToHTTPStatus(rentals.ErrInvalid("bad")))
	assert.Equal(t, 500, rentals.ToHTTPStatus(rentals.ErrInternal("boom")))
	assert.Equal(t, 500, rentals.ToHTTPStatus(errors.New("plain")))
}

func Test_Service_ListsAreNeverNil(t *testing.T) {
	svc := rentals.NewService(newLedger())
	ctx := context.Background()

	assert.NotNil(t, svc.ListAll(ctx))
	assert.NotNil(t, svc.ListPending(ctx))
	assert.NotNil(t, svc.ListByCustomer(ctx, "Bob"))
}

func Test_Service_ReturnMessageNamesTitle(t *testing.T) {
	svc := rentals.NewService(newLedger())
	ctx := context.Background()

	created, err := svc.CreateRental(ctx, rentals.CreateRentalRequest{Customer: "Bob", Title: "Alien", StaffID: "S3", Cost: 2.5})
	require.NoError(t, err)

	res, err := svc.ReturnRental(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DVD 'Alien' returned", res.Message)
	assert.Equal(t, created.ID, res.Rental.ID)
}
