package domain

// Product is a row in products_schema.products. Price is carried as a float
// so it serializes as a JSON number, never as the numeric text pgx would
// otherwise hand back.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
