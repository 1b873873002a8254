package libs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moda-store/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShippingClient(server *httptest.Server) *ShippingClient {
	return &ShippingClient{
		httpClient: server.Client(),
		baseURL:    server.URL,
	}
}

func garmentItems() []models.PackageItem {
	return []models.PackageItem{
		{Width: 30, Height: 5, Length: 40, Weight: 0.3, Quantity: 2, DeclaredValue: 50},
	}
}

func TestFetchRates_ParsesOptionsAndSkipsInlineErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "01001-000", req.To.PostalCode)
		require.Len(t, req.Items, 1)

		days := 5
		_ = json.NewEncoder(w).Encode([]rateResponse{
			{Name: "PAC", Price: 15.50, DeliveryTime: &days},
			{Name: "Sedex", Price: 25.90},
			{Name: "Mini Envios", Error: "weight exceeds limit"},
		})
	}))
	defer server.Close()

	options, err := testShippingClient(server).FetchRates(context.Background(), "01001000", garmentItems())
	require.NoError(t, err)

	require.Len(t, options, 2)
	assert.Equal(t, "PAC", options[0].Carrier)
	assert.Equal(t, 15.50, options[0].Price)
	require.NotNil(t, options[0].DeliveryDays)
	assert.Equal(t, 5, *options[0].DeliveryDays)
	assert.Nil(t, options[1].DeliveryDays)
}

func TestFetchRates_RejectionCarriesAPIMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(rateError{Message: "invalid postal code"})
	}))
	defer server.Close()

	_, err := testShippingClient(server).FetchRates(context.Background(), "99999999", garmentItems())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid postal code")
}

func TestFetchRates_DeadlineBecomesRateTimeout(t *testing.T) {
	// The handler must return once the test is over, or Close would wait on
	// the connection forever.
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	client := testShippingClient(server)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.FetchRates(ctx, "01001000", garmentItems())

	assert.ErrorIs(t, err, ErrRateTimeout)
}
