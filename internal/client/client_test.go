package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"dvd-rental-backend/internal/client"
	"dvd-rental-backend/internal/rentals"
)

func newServer(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.UseRawPath = true
	rentals.RegisterRoutes(r, rentals.NewService(rentals.NewLedger(nil)))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return client.New(srv.URL+"/", 2*time.Second)
}

func TestClient_RoundTrip(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	bob, err := c.Rent(ctx, rentals.CreateRentalRequest{Customer: "Bob", Title: "Matrix", StaffID: "S1", Cost: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), bob.ID)
	assert.False(t, bob.RentedAt.IsZero())

	_, err = c.Rent(ctx, rentals.CreateRentalRequest{Customer: "Ann Lee", Title: "Up", StaffID: "S2", Cost: 4})
	require.NoError(t, err)

	ret, err := c.Return(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ret.Rental.Returned)

	pending, err := c.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].ID)

	ann, err := c.ByCustomer(ctx, "Ann Lee")
	require.NoError(t, err)
	require.Len(t, ann, 1)
	assert.Equal(t, "Up", ann[0].Title)

	res, err := c.Cancel(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)

	all, err := c.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(1), all[0].ID)
}

func TestClient_ByCustomerWithSlash(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	_, err := c.Rent(ctx, rentals.CreateRentalRequest{Customer: "AC/DC", Title: "Live at River Plate", StaffID: "S1", Cost: 3})
	require.NoError(t, err)

	got, err := c.ByCustomer(ctx, "AC/DC")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AC/DC", got[0].Customer)
	assert.Equal(t, "Live at River Plate", got[0].Title)
}

func TestClient_NotFound(t *testing.T) {
	c := newServer(t)

	_, err := c.Return(context.Background(), 9)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.NotFound())
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "rental not found", apiErr.Message)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, time.Second).All(context.Background())

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.True(t, strings.Contains(apiErr.Message, "upstream down"))
}

func TestPopularTitles(t *testing.T) {
	rs := []rentals.RentalResponse{
		{Title: "Up"}, {Title: "Matrix"}, {Title: "Alien"}, {Title: "Matrix"}, {Title: "Up"}, {Title: "Matrix"},
	}

	got := client.PopularTitles(rs)

	assert.Equal(t, []client.TitleCount{
		{Title: "Matrix", Count: 3},
		{Title: "Up", Count: 2},
		{Title: "Alien", Count: 1},
	}, got)
	assert.Empty(t, client.PopularTitles(nil))
}

func TestStaffRevenue(t *testing.T) {
	rs := []rentals.RentalResponse{
		{StaffID: "S2", Cost: 4},
		{StaffID: "S1", Cost: 5},
		{StaffID: "S1", Cost: 2.5, Returned: true},
	}

	got := client.StaffRevenue(rs)

	assert.Equal(t, []client.StaffTotal{
		{StaffID: "S1", Total: 7.5, Rentals: 2},
		{StaffID: "S2", Total: 4, Rentals: 1},
	}, got)
}

func TestFormatRevenue(t *testing.T) {
	s := client.FormatRevenue(language.AmericanEnglish, currency.USD, 12.5)
	assert.Contains(t, s, "$")
	assert.Contains(t, s, "12.50")
}
