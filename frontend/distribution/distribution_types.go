package distribution

// SplitInput carries one distribution form submission. A nil OfflineQty means
// the offline share is derived from what remains after the online share.
type SplitInput struct {
	ProductID  int64
	OnlineQty  int64
	OfflineQty *int64
}

type AvailabilityRow struct {
	ProductID    int64  `bun:"product_id"`
	Code         string `bun:"code"`
	Name         string `bun:"name"`
	AvailableQty int64  `bun:"available_qty"`
}

type SplitView struct {
	ID           int64  `bun:"id"`
	ProductCode  string `bun:"product_code"`
	ProductName  string `bun:"product_name"`
	AvailableQty int64  `bun:"available_qty"`
	OnlineQty    int64  `bun:"online_qty"`
	OfflineQty   int64  `bun:"offline_qty"`
	CreatedAt    string `bun:"created_at"`
}

type PageData struct {
	Message      string
	Availability []AvailabilityRow
	Splits       []SplitView
}
