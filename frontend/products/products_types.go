package products

type ImportSummary struct {
	Inserted int
	Updated  int
	Errors   int
}

type ProductRecord struct {
	ID          int64  `bun:"id"`
	Code        string `bun:"code"`
	Name        string `bun:"name"`
	ProductType string `bun:"product_type"`
	Consumable  bool   `bun:"consumable"`
	CreatedAt   string `bun:"created_at"`
	UpdatedAt   string `bun:"updated_at"`
}

type PageData struct {
	Message string
	Records []ProductRecord
}
