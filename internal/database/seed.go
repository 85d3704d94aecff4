package database

import (
	"errors"
	"log/slog"

	"github.com/atelmoda/storefront-backend/internal/models"
	"gorm.io/gorm"
)

type seedCategory struct {
	ProductType string
	AgeGroup    string
	Gender      string
}

type seedProduct struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
	Category    seedCategory
}

var seedCatalog = []seedProduct{
	{Name: "Classic Oxford Shirt", Description: "White cotton oxford with button-down collar.", Price: 39.99, Stock: 120, ImageURL: "/static/img/oxford-shirt.jpg", Category: seedCategory{"Shirts", "Adult", "Male"}},
	{Name: "Slim Fit Chinos", Description: "Stretch twill chinos in khaki.", Price: 49.50, Stock: 80, ImageURL: "/static/img/chinos.jpg", Category: seedCategory{"Trousers", "Adult", "Male"}},
	{Name: "Merino Crewneck", Description: "Lightweight merino wool sweater.", Price: 74.00, Stock: 45, ImageURL: "/static/img/merino.jpg", Category: seedCategory{"Knitwear", "Adult", "Male"}},
	{Name: "Floral Midi Dress", Description: "Printed viscose dress with tie waist.", Price: 64.99, Stock: 60, ImageURL: "/static/img/midi-dress.jpg", Category: seedCategory{"Dresses", "Adult", "Female"}},
	{Name: "High-Rise Jeans", Description: "Vintage wash denim, straight leg.", Price: 58.00, Stock: 95, ImageURL: "/static/img/jeans.jpg", Category: seedCategory{"Jeans", "Adult", "Female"}},
	{Name: "Silk Scarf", Description: "Hand-rolled silk twill scarf.", Price: 29.99, Stock: 150, ImageURL: "/static/img/scarf.jpg", Category: seedCategory{"Accessories", "All", "Unisex"}},
	{Name: "Leather Belt", Description: "Full-grain leather with brass buckle.", Price: 34.50, Stock: 110, ImageURL: "/static/img/belt.jpg", Category: seedCategory{"Accessories", "All", "Unisex"}},
	{Name: "Canvas Sneakers", Description: "Low-top sneakers with rubber sole.", Price: 44.99, Stock: 70, ImageURL: "/static/img/sneakers.jpg", Category: seedCategory{"Footwear", "Adult", "Unisex"}},
	{Name: "Suede Ankle Boots", Description: "Block heel boots in taupe suede.", Price: 89.00, Stock: 30, ImageURL: "/static/img/boots.jpg", Category: seedCategory{"Footwear", "Adult", "Female"}},
	{Name: "Kids Graphic Tee", Description: "Organic cotton tee with dinosaur print.", Price: 14.99, Stock: 200, ImageURL: "/static/img/kids-tee.jpg", Category: seedCategory{"T-Shirts", "Kids", "Unisex"}},
}

// SeedCatalog inserts a starter catalog for development setups. Products that
// already exist by name are left untouched, so repeated startups are safe.
func SeedCatalog(db *gorm.DB) error {
	categories := map[seedCategory]*models.Category{}
	seeded := 0

	for _, sp := range seedCatalog {
		cat, ok := categories[sp.Category]
		if !ok {
			cat = &models.Category{
				ProductType: sp.Category.ProductType,
				AgeGroup:    sp.Category.AgeGroup,
				Gender:      sp.Category.Gender,
			}
			err := db.Where("product_type = ? AND age_group = ? AND gender = ?",
				sp.Category.ProductType, sp.Category.AgeGroup, sp.Category.Gender).First(cat).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(cat).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			categories[sp.Category] = cat
		}

		var existing models.Product
		err := db.Where("name = ?", sp.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		product := models.Product{
			Name:        sp.Name,
			Description: sp.Description,
			Price:       sp.Price,
			Stock:       sp.Stock,
			ImageURL:    sp.ImageURL,
			CategoryID:  &cat.ID,
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		slog.Info("seeded catalog", "new", seeded, "total", len(seedCatalog))
	}
	return nil
}
