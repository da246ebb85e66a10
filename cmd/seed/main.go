package main

import (
	"fmt"

	"github.com/Dhanush032/Smart-Shopping/internal/config"
	"github.com/Dhanush032/Smart-Shopping/internal/constants"
	"github.com/Dhanush032/Smart-Shopping/internal/logger"
	"github.com/Dhanush032/Smart-Shopping/internal/models"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	categories := []models.Category{
		{
			Name:        "Electronics",
			Slug:        "electronics",
			Description: "Phones, audio and smart devices",
			SortOrder:   300,
			IsActive:    true,
		},
		{
			Name:        "Lifestyle",
			Slug:        "lifestyle",
			Description: "Everyday goods for home and travel",
			SortOrder:   200,
			IsActive:    true,
		},
		{
			Name:        "Accessories",
			Slug:        "accessories",
			Description: "Chargers, cables and add-ons",
			SortOrder:   100,
			IsActive:    true,
		},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"electronics", "lifestyle", "accessories"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	electronicsID := categoryIDs["electronics"]
	lifestyleID := categoryIDs["lifestyle"]
	accessoriesID := categoryIDs["accessories"]

	products := []models.Product{
		{
			Name:        "Wireless Bluetooth Earphones",
			Slug:        "wireless-earphones",
			Description: "High quality sound, long battery life, comfortable to wear.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			Stock:       120,
			CategoryID:  electronicsID,
			Featured:    true,
			IsActive:    true,
		},
		{
			Name:        "Smart Watch",
			Slug:        "smart-watch",
			Description: "Health monitoring, fitness tracking, message notifications.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)),
			Stock:       60,
			CategoryID:  electronicsID,
			Featured:    true,
			IsActive:    true,
		},
		{
			Name:        "Portable Power Bank",
			Slug:        "power-bank",
			Description: "High capacity, fast charging, multi-device compatible.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(49.99)),
			Stock:       200,
			CategoryID:  accessoriesID,
			IsActive:    true,
		},
		{
			Name:        "Multi-function Backpack",
			Slug:        "backpack",
			Description: "Large capacity, waterproof and anti-theft, USB charging port.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(79.99)),
			Stock:       45,
			CategoryID:  lifestyleID,
			IsActive:    true,
		},
		{
			Name:        "USB-C Fast Charger",
			Slug:        "usb-c-charger",
			Description: "65W GaN charger for laptops and phones.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(29.90)),
			Stock:       300,
			CategoryID:  accessoriesID,
			IsActive:    true,
		},
		// low and zero stock rows keep the storefront badges demoable
		{
			Name:        "Mechanical Keyboard (Low Stock)",
			Slug:        "demo-low-stock",
			Description: "For stock badge demo: only a few units remaining.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(89.90)),
			Stock:       3,
			CategoryID:  electronicsID,
			IsActive:    true,
		},
		{
			Name:        "Limited Edition Mug (Sold Out)",
			Slug:        "demo-sold-out",
			Description: "For stock badge and disabled purchase demo: sold out.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(19.90)),
			Stock:       0,
			CategoryID:  lifestyleID,
			IsActive:    true,
		},
		{
			Name:        "Retired Desk Lamp (Hidden)",
			Slug:        "demo-inactive",
			Description: "Inactive product, must never appear in the storefront.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(39.90)),
			Stock:       10,
			CategoryID:  lifestyleID,
			IsActive:    false,
		},
	}

	for _, prod := range products {
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category_id missing", prod.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
			}
		} else {
			existing.Name = prod.Name
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.Stock = prod.Stock
			existing.CategoryID = prod.CategoryID
			existing.Featured = prod.Featured
			existing.IsActive = prod.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Slug)
			}
		}
	}

	demoEmail := "demo@example.com"
	var existingUser models.User
	if err := models.DB.Where("email = ?", demoEmail).First(&existingUser).Error; err != nil {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte("Demo1234"), bcrypt.DefaultCost)
		if hashErr != nil {
			stdLog.Printf("Failed to hash demo user password: %v", hashErr)
		} else {
			user := models.User{
				Email:        demoEmail,
				PasswordHash: string(hash),
				DisplayName:  "Demo Customer",
				Status:       constants.UserStatusActive,
			}
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create demo user: %v", err)
			} else {
				stdLog.Printf("Created demo user: %s (password Demo1234)", demoEmail)
			}
		}
	} else {
		stdLog.Printf("Demo user already exists: %s", demoEmail)
	}

	fmt.Println("\nSeed data ready.")
	fmt.Println("Summary:")
	fmt.Println("- 3 categories")
	fmt.Println("- 8 products (including low stock, sold out and inactive demos)")
	fmt.Println("- 1 demo customer (demo@example.com / Demo1234)")
}
