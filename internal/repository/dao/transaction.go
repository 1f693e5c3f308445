package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Transaction mirrors one payment-service ledger row. Amounts are stored in
// minor currency units.
type Transaction struct {
	ID uint `gorm:"primaryKey"`

	DebitorID  uint   `gorm:"index;not null"`
	Identifier string `gorm:"uniqueIndex;not null"`
	Type       string `gorm:"not null"` // "due" or "payment"
	Method     string `gorm:"not null"`
	Currency   string `gorm:"not null"`
	GrossCent  int64  `gorm:"not null"`
	VatRate    float64
	Comment    string
	Status     string `gorm:"not null"` // "tentative", "pending", "valid" or "deleted"

	PaymentStartURL string
	EffectiveDate   string
	DueDate         string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TransactionDAO struct {
	db *gorm.DB
}

func NewTransactionDAO(db *gorm.DB) *TransactionDAO {
	return &TransactionDAO{
		db: db,
	}
}

func (d *TransactionDAO) FindByDebitorID(ctx context.Context, debitorID uint) ([]Transaction, error) {
	var transactions []Transaction
	result := d.db.WithContext(ctx).
		Where("debitor_id = ?", debitorID).
		Order("created_at").
		Find(&transactions)
	if result.Error != nil {
		return nil, result.Error
	}

	return transactions, nil
}

func (d *TransactionDAO) Insert(ctx context.Context, transaction Transaction) (Transaction, error) {
	result := d.db.WithContext(ctx).Create(&transaction)
	if result.Error != nil {
		return Transaction{}, result.Error
	}

	return transaction, nil
}
