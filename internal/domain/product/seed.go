package product

import "github.com/shopspring/decimal"

// DemoCatalog returns the built-in catalog used when no database is
// configured, matching the storefront demo pages.
func DemoCatalog() []Product {
	return []Product{
		{
			ID:            "netflix-premium-1year",
			Name:          "Netflix Premium 1 Year - 4K Ultra HD",
			Category:      "Streaming Accounts",
			Price:         decimal.NewFromInt(899000),
			OriginalPrice: decimal.NewFromInt(2090000),
			Image:         "https://images.unsplash.com/photo-1574375927938-d5a98e8ffe85?w=200&h=200&fit=crop&crop=center",
			Icon:          "tv",
		},
		{
			ID:            "spotify-premium-1year",
			Name:          "Spotify Premium 1 Year - Ad-free",
			Category:      "Streaming Accounts",
			Price:         decimal.NewFromInt(599000),
			OriginalPrice: decimal.NewFromInt(1200000),
			Image:         "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=200&h=200&fit=crop&crop=center",
			Icon:          "music",
		},
		{
			ID:            "windows-11-pro",
			Name:          "Windows 11 Pro - Retail License Key",
			Category:      "Software & License",
			Price:         decimal.NewFromInt(299000),
			OriginalPrice: decimal.NewFromInt(5490000),
			Image:         "https://images.unsplash.com/photo-1518709268805-4e9042af2176?w=200&h=200&fit=crop&crop=center",
			Icon:          "monitor",
		},
		{
			ID:            "chatgpt-plus-1month",
			Name:          "ChatGPT Plus 1 Month - GPT-4 Access",
			Category:      "AI Tools",
			Price:         decimal.NewFromInt(450000),
			OriginalPrice: decimal.NewFromInt(2990000),
			Icon:          "bot",
		},
		{
			ID:       "canva-pro-1year",
			Name:     "Canva Pro 1 Year - Design Suite",
			Category: "Design Tools",
			Price:    decimal.NewFromInt(349000),
			Icon:     "palette",
		},
	}
}
