package migrations

import (
	"github.com/shashiranjanraj/bookstore/app/models"
	"github.com/shashiranjanraj/bookstore/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250301000000_create_users_table", &createTable{model: &models.User{}})
	migration.Register("20250301000100_create_catalogue_tables", &createTable{
		model: &models.Category{},
		more:  []interface{}{&models.Author{}, &models.Book{}, &models.BookAuthor{}},
	})
	migration.Register("20250301000200_create_cart_items_table", &createTable{model: &models.CartItem{}})
	migration.Register("20250301000300_create_loans_table", &createTable{model: &models.Loan{}})
	migration.Register("20250301000400_create_reviews_table", &createTable{model: &models.Review{}})
}

// createTable creates the tables of one or more models and drops them in
// reverse order on rollback.
type createTable struct {
	model interface{}
	more  []interface{}
}

func (m *createTable) all() []interface{} {
	return append([]interface{}{m.model}, m.more...)
}

func (m *createTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.all()...)
}

func (m *createTable) Down(db *gorm.DB) error {
	all := m.all()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return err
		}
	}
	return nil
}
