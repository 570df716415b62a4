package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Seed inserts a starter product set for local development.
// It is a no-op when any products already exist.
func Seed(ctx context.Context, repo Repository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("check existing products: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	products := []Product{
		{
			Name:          "Wireless Bluetooth Headphones",
			Description:   "High-quality wireless headphones with noise cancellation and 30-hour battery life.",
			Price:         decimal.NewFromFloat(199.99),
			StockQuantity: 50,
			Category:      "Electronics",
			ImageURL:      "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
		},
		{
			Name:          "Smart Fitness Watch",
			Description:   "Advanced fitness tracking watch with heart rate monitor, GPS, and water resistance.",
			Price:         decimal.NewFromFloat(299.99),
			StockQuantity: 30,
			Category:      "Electronics",
			ImageURL:      "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500",
		},
		{
			Name:          "Organic Cotton T-Shirt",
			Description:   "Comfortable and sustainable organic cotton t-shirt in various colors.",
			Price:         decimal.NewFromFloat(29.99),
			StockQuantity: 100,
			Category:      "Clothing",
			ImageURL:      "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=500",
		},
		{
			Name:          "Premium Coffee Beans",
			Description:   "Artisan roasted coffee beans from Colombia, perfect for coffee enthusiasts.",
			Price:         decimal.NewFromFloat(24.99),
			StockQuantity: 75,
			Category:      "Food & Beverages",
			ImageURL:      "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=500",
		},
		{
			Name:          "Yoga Mat Pro",
			Description:   "Non-slip yoga mat with excellent cushioning and durability for all yoga practices.",
			Price:         decimal.NewFromFloat(79.99),
			StockQuantity: 40,
			Category:      "Sports & Fitness",
			ImageURL:      "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=500",
		},
		{
			Name:          "Ceramic Dinner Set",
			Description:   "Beautiful handcrafted ceramic dinner set for 4 people, dishwasher safe.",
			Price:         decimal.NewFromFloat(149.99),
			StockQuantity: 20,
			Category:      "Home & Kitchen",
			ImageURL:      "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=500",
		},
		{
			Name:          "LED Desk Lamp",
			Description:   "Adjustable LED desk lamp with multiple brightness levels and USB charging port.",
			Price:         decimal.NewFromFloat(89.99),
			StockQuantity: 60,
			Category:      "Home & Kitchen",
			ImageURL:      "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=500",
		},
	}

	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("seed product %q: %w", products[i].Name, err)
		}
	}
	return nil
}
