package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/shoply/storefront-api/internal/config"
	"github.com/shoply/storefront-api/internal/model"
	"github.com/shoply/storefront-api/internal/repository"
)

// Seeds the database with sample products and two accounts
// (admin@example.com / john@example.com, password "password123").
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := repository.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Error("connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.Mongo.Database)

	// Clear existing data
	if _, err := db.Collection("users").DeleteMany(ctx, bson.M{}); err != nil {
		log.Error("clear users", "error", err)
		os.Exit(1)
	}
	if _, err := db.Collection("products").DeleteMany(ctx, bson.M{}); err != nil {
		log.Error("clear products", "error", err)
		os.Exit(1)
	}
	log.Info("data cleared")

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Error("ensure indexes", "error", err)
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Error("hash password", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	users := []model.User{
		{Name: "Admin User", Email: "admin@example.com", Password: string(hashed), IsAdmin: true},
		{Name: "John Doe", Email: "john@example.com", Password: string(hashed)},
	}
	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			log.Error("seed user", "email", users[i].Email, "error", err)
			os.Exit(1)
		}
	}
	log.Info("users seeded", "count", len(users))

	productRepo := repository.NewProductRepository(db)
	for i := range sampleProducts {
		if err := productRepo.Create(ctx, &sampleProducts[i]); err != nil {
			log.Error("seed product", "name", sampleProducts[i].Name, "error", err)
			os.Exit(1)
		}
	}
	log.Info("products seeded", "count", len(sampleProducts))
	log.Info("database seeded successfully")
}

var sampleProducts = []model.Product{
	{
		Name:         "iPhone 13 Pro",
		Description:  "Apple iPhone 13 Pro with A15 Bionic chip, Pro camera system, and Super Retina XDR display with ProMotion.",
		Price:        decimal.RequireFromString("999.99"),
		Image:        "https://images.unsplash.com/photo-1632661674596-df8be070a5c5?auto=format&fit=crop&q=80",
		Category:     "Electronics",
		CountInStock: 15,
		Rating:       4.5,
		NumReviews:   89,
	},
	{
		Name:         "Samsung Galaxy S22",
		Description:  "Samsung Galaxy S22 with Snapdragon 8 Gen 1, Dynamic AMOLED display, and pro-grade camera.",
		Price:        decimal.RequireFromString("799.99"),
		Image:        "https://images.unsplash.com/photo-1610945415295-d9bbf067e59c?auto=format&fit=crop&q=80",
		Category:     "Electronics",
		CountInStock: 8,
		Rating:       4.2,
		NumReviews:   62,
	},
	{
		Name:         "Sony WH-1000XM4 Headphones",
		Description:  "Wireless premium noise cancelling headphones with exceptional sound quality and long battery life.",
		Price:        decimal.RequireFromString("349.99"),
		Image:        "https://images.unsplash.com/photo-1618366712010-f4ae9c647dcb?auto=format&fit=crop&q=80",
		Category:     "Electronics",
		CountInStock: 12,
		Rating:       4.8,
		NumReviews:   134,
	},
	{
		Name:         "Nike Air Max 270",
		Description:  "Stylish and comfortable athletic shoes with Air Max cushioning for all-day comfort.",
		Price:        decimal.RequireFromString("150.00"),
		Image:        "https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&q=80",
		Category:     "Clothing",
		CountInStock: 25,
		Rating:       4.3,
		NumReviews:   56,
	},
	{
		Name:         "Levi's 501 Original Jeans",
		Description:  "Classic straight leg jeans with button fly and five-pocket styling.",
		Price:        decimal.RequireFromString("69.50"),
		Image:        "https://images.unsplash.com/photo-1542272604-787c3835535d?auto=format&fit=crop&q=80",
		Category:     "Clothing",
		CountInStock: 30,
		Rating:       4.0,
		NumReviews:   41,
	},
	{
		Name:         "Instant Pot Duo Plus",
		Description:  "9-in-1 electric pressure cooker that works as a slow cooker, rice cooker, steamer, and more.",
		Price:        decimal.RequireFromString("119.99"),
		Image:        "https://images.unsplash.com/photo-1585664811087-47f65abbad64?auto=format&fit=crop&q=80",
		Category:     "Home & Kitchen",
		CountInStock: 18,
		Rating:       4.7,
		NumReviews:   215,
	},
	{
		Name:         "The Alchemist by Paulo Coelho",
		Description:  "A fable about following your dream and listening to your heart.",
		Price:        decimal.RequireFromString("14.99"),
		Image:        "https://images.unsplash.com/photo-1544947950-fa07a98d237f?auto=format&fit=crop&q=80",
		Category:     "Books",
		CountInStock: 45,
		Rating:       4.8,
		NumReviews:   320,
	},
	{
		Name:         "Atomic Habits by James Clear",
		Description:  "An easy and proven way to build good habits and break bad ones.",
		Price:        decimal.RequireFromString("16.99"),
		Image:        "https://images.unsplash.com/photo-1544947950-fa07a98d237f?auto=format&fit=crop&q=80",
		Category:     "Books",
		CountInStock: 32,
		Rating:       4.9,
		NumReviews:   256,
	},
}
