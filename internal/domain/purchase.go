package domain

import "time"

// PurchaseRecord is one row of a customer's purchase history. History
// granularity is per (customer, product) pair: repeat purchases accumulate
// into the same row instead of appending new ones.
type PurchaseRecord struct {
	CustomerName string    `json:"customer_name"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	PurchasedAt  time.Time `json:"purchased_at"`
}

// PurchaseReceipt describes a committed purchase, for the confirmation
// notice shown after the redirect.
type PurchaseReceipt struct {
	ProductName    string
	Quantity       int
	RemainingStock int
}

type PurchaseRepository interface {
	// RegisterPurchase upserts the (customerID, productID) join row,
	// accumulating quantity, and decrements the product's stock. Both writes
	// commit or roll back together. Returns ErrNotFound when the product or
	// customer is absent and *InsufficientStockError when stock < quantity,
	// in either case without mutating anything.
	RegisterPurchase(customerID, productID, quantity int) (*PurchaseReceipt, error)
	ListPurchasesByCustomer(customerID int) ([]PurchaseRecord, error)
}
