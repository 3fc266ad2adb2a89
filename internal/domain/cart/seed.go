package cart

import "github.com/shopspring/decimal"

// DemoSeed returns the sample cart installed on first load when demo
// seeding is enabled. Quantities are already valid, so the seed can be
// persisted as-is.
func DemoSeed() []LineItem {
	return []LineItem{
		{
			ID:            "netflix-premium-1year",
			Name:          "Netflix Premium 1 Year - 4K Ultra HD",
			Category:      "Streaming Accounts",
			Price:         decimal.NewFromInt(899000),
			OriginalPrice: decimal.NewFromInt(2090000),
			Quantity:      1,
			Image:         "https://images.unsplash.com/photo-1574375927938-d5a98e8ffe85?w=200&h=200&fit=crop&crop=center",
			Icon:          "tv",
		},
		{
			ID:            "spotify-premium-1year",
			Name:          "Spotify Premium 1 Year - Ad-free",
			Category:      "Streaming Accounts",
			Price:         decimal.NewFromInt(599000),
			OriginalPrice: decimal.NewFromInt(1200000),
			Quantity:      1,
			Image:         "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=200&h=200&fit=crop&crop=center",
			Icon:          "music",
		},
		{
			ID:            "windows-11-pro",
			Name:          "Windows 11 Pro - Retail License Key",
			Category:      "Software & License",
			Price:         decimal.NewFromInt(299000),
			OriginalPrice: decimal.NewFromInt(5490000),
			Quantity:      1,
			Image:         "https://images.unsplash.com/photo-1518709268805-4e9042af2176?w=200&h=200&fit=crop&crop=center",
			Icon:          "monitor",
		},
	}
}
