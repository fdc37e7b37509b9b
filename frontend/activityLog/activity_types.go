package activitylog

type LogRowView struct {
	ID         int64  `bun:"id"`
	Username   string `bun:"username"`
	Action     string `bun:"action"`
	EntityType string `bun:"entity_type"`
	EntityID   string `bun:"entity_id"`
	BeforeJSON string `bun:"before_json"`
	AfterJSON  string `bun:"after_json"`
	CreatedAt  string `bun:"created_at"`
}

// Filter narrows the activity list. Empty fields match everything.
type Filter struct {
	Action     string
	EntityType string
	Username   string
}

type PageData struct {
	Filter      Filter
	Rows        []LogRowView
	ActionTypes []string
	EntityTypes []string
}
