package libs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"moda-store/config"
	"moda-store/models"
)

// CEPClient resolves a CEP to street data via the ViaCEP contract. Lookups
// are best-effort enrichment: every failure path returns nil, nil so the
// user just types the address by hand.
type CEPClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewCEPClient() *CEPClient {
	return &CEPClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    config.AppConfig.CEPLookupURL,
	}
}

type cepResponse struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

func (c *CEPClient) Lookup(ctx context.Context, cep string) (*models.ShippingAddress, error) {
	url := fmt.Sprintf("%s/%s/json/", c.baseURL, cep)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var data cepResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, nil
	}
	if data.Erro {
		return nil, nil
	}

	return &models.ShippingAddress{
		CEP:          cep,
		Street:       data.Logradouro,
		Neighborhood: data.Bairro,
		City:         data.Localidade,
		State:        data.UF,
	}, nil
}
