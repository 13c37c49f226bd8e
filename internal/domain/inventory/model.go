package inventory

import "time"

// StockStatus is the ledger read model: the current film count plus the
// derived low-stock flag.
type StockStatus struct {
	Count     int       `json:"count"`
	Threshold int       `json:"threshold"`
	LowStock  bool      `json:"low_stock"`
	UpdatedAt time.Time `json:"updated_at"`
}
