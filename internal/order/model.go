package order

// Order is the aggregate root. Status is an open string ("active",
// "completed", ...); nothing enforces an enum.
type Order struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	UserID int64  `json:"user_id"`
}

// LineItem attaches a quantity of one product to one order. Its lifecycle is
// bound to the owning order.
type LineItem struct {
	ID        int64 `json:"id"`
	Quantity  int   `json:"quantity"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
}
