package exports

type PageData struct {
	Message string
	Runs    []ExportRunView
}

type ExportRunView struct {
	ID         int64  `bun:"id"`
	Username   string `bun:"username"`
	ExportType string `bun:"export_type"`
	CreatedAt  string `bun:"created_at"`
}
