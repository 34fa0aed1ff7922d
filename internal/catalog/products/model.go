// Package products manages the restaurant's product catalog.
package products

import (
	"time"

	"github.com/teranga-resto/teranga-resto/internal/billing/money"
)

// Product is one catalog entry. Unit is the sales unit label shown on
// invoices ("pot", "sachet", "bidon", ...).
type Product struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Price     money.Money `json:"price"`
	Unit      string      `json:"unit"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
