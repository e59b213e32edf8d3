package product

type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// We keep the price as a string to avoid rounding errors (NUMERIC in
	// Postgres); input is validated through shopspring/decimal.
	Price    string `json:"price"`
	Category string `json:"category"`
}

// CreateProduct payload of creation.
// swagger:model CreateProduct
type CreateProduct struct {
	Name     string `json:"name"     example:"Mecanical Keyboard"`
	Price    string `json:"price"    example:"199.90"`
	Category string `json:"category" example:"peripherals"`
}

// UpdateProduct is a partial update: nil fields are left untouched.
// swagger:model UpdateProduct
type UpdateProduct struct {
	ID       int64   `json:"-"`
	Name     *string `json:"name"`
	Price    *string `json:"price"`
	Category *string `json:"category"`
}

// TopProduct is one row of the top-selling aggregation.
type TopProduct struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	TotalQuantity int64  `json:"total_quantity"`
}
