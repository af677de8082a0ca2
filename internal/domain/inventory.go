package domain

import "time"

// InventoryStatus is the availability status of a remote inventory item.
// The inventory service owns these values; this backend only requests
// changes and must treat every such request as fallible.
type InventoryStatus string

const (
	InventoryStatusAvailable   InventoryStatus = "AVAILABLE"
	InventoryStatusRented      InventoryStatus = "RENTED"
	InventoryStatusMaintenance InventoryStatus = "MAINTENANCE"
	InventoryStatusDamaged     InventoryStatus = "DAMAGED"
	InventoryStatusRetired     InventoryStatus = "RETIRED"
)

// InventoryItem is a read snapshot of a remote inventory item.
type InventoryItem struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	SerialNumber string          `json:"serial_number"`
	Status       InventoryStatus `json:"status"`
	UpdatedOn    time.Time       `json:"updated_on"`
}
