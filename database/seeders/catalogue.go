package seeders

import (
	"context"
	"time"

	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/pkg/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	Register("users", SeedUsers)
	Register("catalogue", SeedCatalogue)
}

// SeedUsers creates an admin and a demo customer. Existing emails are left
// untouched.
func SeedUsers(ctx context.Context, db *gorm.DB) error {
	hash, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Admin", Email: "admin@bookstore.local", Password: hash, Role: models.RoleAdmin},
		{Name: "Demo Reader", Email: "reader@bookstore.local", Password: hash, Role: models.RoleCustomer},
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error
}

type seedBook struct {
	title     string
	price     float64
	stock     int
	published string
	publisher string
	category  string
	authors   []string // "First Last"
}

var catalogue = []seedBook{
	{"Pride and Prejudice", 9.99, 5, "1813-01-28", "T. Egerton", "Classics", []string{"Jane Austen"}},
	{"Emma", 8.50, 3, "1815-12-23", "John Murray", "Classics", []string{"Jane Austen"}},
	{"Dune", 14.99, 4, "1965-08-01", "Chilton Books", "Science Fiction", []string{"Frank Herbert"}},
	{"The Left Hand of Darkness", 12.00, 2, "1969-03-01", "Ace Books", "Science Fiction", []string{"Ursula Le Guin"}},
	{"Good Omens", 11.25, 6, "1990-05-01", "Gollancz", "Fantasy", []string{"Terry Pratchett", "Neil Gaiman"}},
	{"The Pragmatic Programmer", 39.95, 1, "1999-10-20", "Addison-Wesley", "Computing", []string{"Andrew Hunt", "David Thomas"}},
}

// SeedCatalogue inserts categories, authors and books with stock. It is a
// no-op when books already exist.
func SeedCatalogue(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.Book{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	categories := map[string]uint{}
	authors := map[string]uint{}

	for _, sb := range catalogue {
		catID, ok := categories[sb.category]
		if !ok {
			c := models.Category{Name: sb.category}
			if err := db.Where(models.Category{Name: sb.category}).FirstOrCreate(&c).Error; err != nil {
				return err
			}
			catID = c.ID
			categories[sb.category] = catID
		}

		published, err := time.Parse("2006-01-02", sb.published)
		if err != nil {
			return err
		}

		book := models.Book{
			Title:           sb.title,
			Price:           sb.price,
			StockQuantity:   sb.stock,
			PublicationDate: &published,
			Publisher:       sb.publisher,
			CategoryID:      &catID,
		}
		if err := db.Omit("Category").Create(&book).Error; err != nil {
			return err
		}

		for _, full := range sb.authors {
			authorID, ok := authors[full]
			if !ok {
				first, last := splitName(full)
				a := models.Author{FirstName: first, LastName: last}
				if err := db.Create(&a).Error; err != nil {
					return err
				}
				authorID = a.ID
				authors[full] = authorID
			}
			if err := db.Create(&models.BookAuthor{BookID: book.ID, AuthorID: authorID}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func splitName(full string) (string, string) {
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
