package libs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCEPClient(server *httptest.Server) *CEPClient {
	return &CEPClient{
		httpClient: server.Client(),
		baseURL:    server.URL,
	}
}

func TestLookup_MapsViaCEPFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/01001000/json/", r.URL.Path)
		_, _ = w.Write([]byte(`{"logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer server.Close()

	addr, err := testCEPClient(server).Lookup(context.Background(), "01001000")
	require.NoError(t, err)
	require.NotNil(t, addr)

	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "Sé", addr.Neighborhood)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
}

func TestLookup_UnknownCEPIsSilentlyEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"erro": true}`))
	}))
	defer server.Close()

	addr, err := testCEPClient(server).Lookup(context.Background(), "99999999")

	assert.NoError(t, err)
	assert.Nil(t, addr)
}

func TestLookup_ServerFailureIsSilentlyEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	addr, err := testCEPClient(server).Lookup(context.Background(), "01001000")

	assert.NoError(t, err)
	assert.Nil(t, addr)
}
