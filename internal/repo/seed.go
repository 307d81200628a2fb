package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

func rating(v float64) *float64 { return &v }

func seedCategories() []models.Category {
	return []models.Category{
		{Name: "Electronics", Description: "Phones, notebooks and gadgets", Active: true},
		{Name: "Clothing", Description: "Apparel for every season", Active: true},
		{Name: "Books", Description: "Technical and general reading", Active: true},
		{Name: "Sports", Description: "Sports gear and footwear", Active: true},
		{Name: "Home", Description: "Kitchen and household items", Active: true},
	}
}

// seedProducts references categories by their position in seedCategories.
func seedProducts(cat []models.Category) []models.Product {
	p := func(name, desc, brand string, price string, stock int, r float64, c int) models.Product {
		return models.Product{
			Name:        name,
			Description: desc,
			Brand:       brand,
			Price:       decimal.RequireFromString(price),
			Stock:       stock,
			Rating:      rating(r),
			CategoryID:  cat[c].ID,
			Active:      true,
		}
	}
	return []models.Product{
		p("iPhone 15 Pro", "Apple smartphone, 256GB", "Apple", "7999.99", 50, 4.8, 0),
		p("Samsung Galaxy S24", "Samsung smartphone, 128GB", "Samsung", "5499.99", 30, 4.6, 0),
		p("Dell Inspiron notebook", "15 inch notebook, 16GB RAM", "Dell", "3899.90", 20, 4.3, 0),
		p("Nike Air Max", "Running shoes", "Nike", "399.99", 100, 4.5, 3),
		p("Nike Dri-FIT shirt", "Training shirt", "Nike", "129.90", 200, 4.2, 1),
		p("Levi's 501", "Original fit jeans", "Levi's", "299.90", 80, 4.4, 1),
		p("Clean Code", "A handbook of agile software craftsmanship", "Prentice Hall", "89.90", 60, 4.9, 2),
		p("The Pragmatic Programmer", "Your journey to mastery", "Addison-Wesley", "119.90", 45, 4.8, 2),
		p("Adidas soccer ball", "Official size 5 ball", "Adidas", "149.99", 75, 4.1, 3),
		p("Adidas Ultraboost", "Cushioned running shoes", "Adidas", "449.99", 40, 4.6, 3),
		p("Nespresso coffee maker", "Capsule espresso machine", "Nespresso", "599.00", 25, 4.4, 4),
		p("Tramontina cookware", "Five piece stainless steel set", "Tramontina", "349.90", 5, 4.0, 4),
	}
}

func seedCustomers() []models.Customer {
	return []models.Customer{
		{Name: "Ana Souza", Email: "ana.souza@example.com", Phone: "11987654321", Address: "Rua Augusta, 100", City: "Sao Paulo", PostalCode: "01305000", Active: true},
		{Name: "Bruno Lima", Email: "bruno.lima@example.com", Phone: "21987654321", Address: "Av. Atlantica, 2000", City: "Rio de Janeiro", PostalCode: "22021001", Active: true},
		{Name: "Carla Mendes", Email: "carla.mendes@example.com", Phone: "31987654321", Address: "Av. Afonso Pena, 500", City: "Belo Horizonte", PostalCode: "30130001", Active: true},
		{Name: "Diego Rocha", Email: "diego.rocha@example.com", Phone: "41987654321", Address: "Rua XV de Novembro, 50", City: "Curitiba", PostalCode: "80020310", Active: true},
	}
}

// Seed inserts the fixed catalog when the categories table is empty.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Category{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		cats := seedCategories()
		if err := tx.Create(&cats).Error; err != nil {
			return err
		}
		products := seedProducts(cats)
		if err := tx.Omit(clause.Associations).Create(&products).Error; err != nil {
			return err
		}
		customers := seedCustomers()
		return tx.Create(&customers).Error
	})
}
