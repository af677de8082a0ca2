package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
)

const serviceName = "inventory"

// Client is the narrow abstraction over the remote inventory service.
// SetItemStatus is idempotent from this backend's point of view: setting
// an item to a status it already holds is safe.
type Client interface {
	GetItem(ctx context.Context, itemID string) (*domain.InventoryItem, error)
	SetItemStatus(ctx context.Context, itemID string, status domain.InventoryStatus, reason string) error
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns a Client speaking JSON over HTTP against the
// inventory service. Every request is bounded by the given timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type itemResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	SerialNumber string    `json:"serial_number"`
	Status       string    `json:"status"`
	UpdatedOn    time.Time `json:"updated_on"`
}

type setStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (c *httpClient) GetItem(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	url := fmt.Sprintf("%s/items/%s", c.baseURL, itemID)
	logger.ExternalServiceCall(serviceName, "GetItem", "item_id", itemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.RemoteCallError{Service: serviceName, Operation: "GetItem", Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult(serviceName, "GetItem", err, "item_id", itemID)
		return nil, &domain.RemoteCallError{Service: serviceName, Operation: "GetItem", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &domain.NotFoundError{Resource: "inventory item", ID: itemID}
	case resp.StatusCode != http.StatusOK:
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		logger.ExternalServiceResult(serviceName, "GetItem", err, "item_id", itemID)
		return nil, &domain.RemoteCallError{Service: serviceName, Operation: "GetItem", Err: err}
	}

	var body itemResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.RemoteCallError{Service: serviceName, Operation: "GetItem", Err: err}
	}
	logger.ExternalServiceResult(serviceName, "GetItem", nil, "item_id", itemID, "status", body.Status)

	return &domain.InventoryItem{
		ID:           body.ID,
		ProductID:    body.ProductID,
		SerialNumber: body.SerialNumber,
		Status:       domain.InventoryStatus(body.Status),
		UpdatedOn:    body.UpdatedOn,
	}, nil
}

func (c *httpClient) SetItemStatus(ctx context.Context, itemID string, status domain.InventoryStatus, reason string) error {
	url := fmt.Sprintf("%s/items/%s/status", c.baseURL, itemID)
	logger.ExternalServiceCall(serviceName, "SetItemStatus", "item_id", itemID, "status", status)

	payload, err := json.Marshal(setStatusRequest{Status: string(status), Reason: reason})
	if err != nil {
		return &domain.RemoteCallError{Service: serviceName, Operation: "SetItemStatus", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return &domain.RemoteCallError{Service: serviceName, Operation: "SetItemStatus", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult(serviceName, "SetItemStatus", err, "item_id", itemID, "status", status)
		return &domain.RemoteCallError{Service: serviceName, Operation: "SetItemStatus", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{Resource: "inventory item", ID: itemID}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		logger.ExternalServiceResult(serviceName, "SetItemStatus", err, "item_id", itemID, "status", status)
		return &domain.RemoteCallError{Service: serviceName, Operation: "SetItemStatus", Err: err}
	}

	logger.ExternalServiceResult(serviceName, "SetItemStatus", nil, "item_id", itemID, "status", status)
	return nil
}
