package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"size:150;index"`
	FirstName string    `gorm:"size:150"`
	LastName  string    `gorm:"size:150"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// BankAccount represents a bank account record in the database.
type BankAccount struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE"`
	Name        string    `gorm:"size:128;not null"`
	IBAN        string    `gorm:"column:iban;size:34;not null;uniqueIndex"`
	MainAccount bool      `gorm:"not null;default:false"`
	BankType    string    `gorm:"size:32;not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for the BankAccount model.
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// Category represents a category record in the database.
type Category struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:128;not null;uniqueIndex:idx_category_scope"`
	Icon      string    `gorm:"size:64;not null"`
	TxnType   string    `gorm:"size:4;not null"`
	Importer  string    `gorm:"size:32;not null;uniqueIndex:idx_category_scope"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_scope"`
	Creator   *User     `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// Transaction represents an imported transaction record in the database.
type Transaction struct {
	ID                uint            `gorm:"primaryKey"`
	BankAccountID     uint            `gorm:"not null;index"`
	BankAccount       *BankAccount    `gorm:"constraint:OnDelete:CASCADE"`
	CategoryID        *uint           `gorm:"index"`
	Category          *Category       `gorm:"constraint:OnDelete:SET NULL"`
	TransferAccountID *uint           `gorm:"index"`
	TransferAccount   *BankAccount    `gorm:"foreignKey:TransferAccountID;constraint:OnDelete:SET NULL"`
	Date              time.Time       `gorm:"not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TxnType           string          `gorm:"size:4;not null"`
	Description       string          `gorm:"type:text"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// Models lists every model managed by AutoMigrate, parents first.
func Models() []any {
	return []any{&User{}, &BankAccount{}, &Category{}, &Transaction{}}
}
