package libs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"moda-store/config"
	"moda-store/models"
	"moda-store/utils"
)

// ErrRateTimeout marks a rate request that hit the 15s deadline. Callers
// surface a retry message distinct from generic network failure.
var ErrRateTimeout = errors.New("shipping rate request timed out")

const rateRequestTimeout = 15 * time.Second

type ShippingClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewShippingClient() *ShippingClient {
	return &ShippingClient{
		httpClient: &http.Client{},
		baseURL:    config.AppConfig.ShippingAPIURL,
		apiKey:     config.AppConfig.ShippingAPIKey,
	}
}

type rateRequest struct {
	To    rateDestination      `json:"to"`
	Items []models.PackageItem `json:"products"`
}

type rateDestination struct {
	PostalCode string `json:"postal_code"`
}

type rateResponse struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DeliveryTime *int    `json:"delivery_time"`
	Error        string  `json:"error,omitempty"`
}

type rateError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// FetchRates quotes shipping for the given parcel items. The CEP must be
// canonical (8 digits) before calling.
func (c *ShippingClient) FetchRates(ctx context.Context, cep string, items []models.PackageItem) ([]models.ShippingOption, error) {
	ctx, cancel := context.WithTimeout(ctx, rateRequestTimeout)
	defer cancel()

	payload, err := json.Marshal(rateRequest{
		To:    rateDestination{PostalCode: utils.MaskCEP(cep)},
		Items: items,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrRateTimeout
		}
		return nil, fmt.Errorf("shipping rate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr rateError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("shipping rate request rejected: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("shipping rate request rejected: status %d", resp.StatusCode)
	}

	var rates []rateResponse
	if err := json.Unmarshal(body, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode rate response: %w", err)
	}

	options := []models.ShippingOption{}
	for _, r := range rates {
		// Carriers report per-option errors (e.g. weight over limit) inline;
		// those entries carry no usable price.
		if r.Error != "" {
			continue
		}
		options = append(options, models.ShippingOption{
			Carrier:      r.Name,
			Price:        r.Price,
			DeliveryDays: r.DeliveryTime,
		})
	}
	return options, nil
}
