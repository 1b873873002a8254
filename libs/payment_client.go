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
)

// ErrPaymentDeclined is the provider saying no. The message attached by the
// caller is user-displayable; the cart must survive it.
var ErrPaymentDeclined = errors.New("payment declined")

type PaymentClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewPaymentClient() *PaymentClient {
	return &PaymentClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    config.AppConfig.PaymentAPIURL,
		apiKey:     config.AppConfig.PaymentAPIKey,
	}
}

type paymentError struct {
	Message  string `json:"message"`
	Declined bool   `json:"declined"`
}

// Submit sends the full payment payload and returns the method-specific
// success result. The idempotency key travels as a header so a retried
// request after a network failure cannot double-charge.
func (c *PaymentClient) Submit(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, req.Method)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity {
		var apiErr paymentError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, apiErr.Message)
		}
		return nil, ErrPaymentDeclined
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr paymentError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("payment request rejected: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("payment request rejected: status %d", resp.StatusCode)
	}

	var result models.PaymentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}
	return &result, nil
}
