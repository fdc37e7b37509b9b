package shipping

import "stockdesk/models"

type ZoneView struct {
	ID      int64  `bun:"id"`
	Name    string `bun:"name"`
	Regions string `bun:"regions"`
	Methods string `bun:"methods"`
}

type MethodView struct {
	ID        int64  `bun:"id"`
	Name      string `bun:"name"`
	Carrier   string `bun:"carrier"`
	BaseRate  string `bun:"base_rate"`
	PerKgRate string `bun:"per_kg_rate"`
	Enabled   bool   `bun:"enabled"`
}

type PageData struct {
	Message string
	Zones   []ZoneView
	Methods []MethodView
	// All methods, for the zone assignment form.
	AllMethods []models.ShippingMethod
}
