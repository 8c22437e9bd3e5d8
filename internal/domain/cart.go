package domain

import "github.com/shopspring/decimal"

// CartItem pairs a product snapshot with a quantity
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price times quantity
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// OrderItem captures the line as an immutable order snapshot
func (c CartItem) OrderItem() OrderItem {
	return OrderItem{
		ProductID:   c.Product.ID,
		ProductName: c.Product.Name,
		Price:       c.Product.Price,
		Quantity:    c.Quantity,
	}
}

// AdminCredentials is the singleton admin record.
// The password is stored and compared in plaintext.
type AdminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
