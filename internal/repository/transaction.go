package repository

import (
	"context"
	"fmt"

	"github.com/confreg/regsvc/internal/payment"
	"github.com/confreg/regsvc/internal/repository/dao"
)

type TransactionDAO interface {
	FindByDebitorID(ctx context.Context, debitorID uint) ([]dao.Transaction, error)
	Insert(ctx context.Context, transaction dao.Transaction) (dao.Transaction, error)
}

type TransactionRepository struct {
	dao TransactionDAO
}

func NewTransactionRepository(dao TransactionDAO) *TransactionRepository {
	return &TransactionRepository{
		dao: dao,
	}
}

func (r *TransactionRepository) FindByDebitorID(ctx context.Context, debitorID uint) ([]payment.Transaction, error) {
	found, err := r.dao.FindByDebitorID(ctx, debitorID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByDebitorID -> %w", err)
	}

	transactions := make([]payment.Transaction, 0, len(found))
	for _, record := range found {
		transactions = append(transactions, r.daoToDomain(record))
	}

	return transactions, nil
}

func (r *TransactionRepository) Create(ctx context.Context, transaction payment.Transaction) (payment.Transaction, error) {
	created, err := r.dao.Insert(ctx, dao.Transaction{
		DebitorID:       transaction.DebitorID,
		Identifier:      transaction.TransactionIdentifier,
		Type:            string(transaction.TransactionType),
		Method:          string(transaction.Method),
		Currency:        transaction.Amount.Currency,
		GrossCent:       transaction.Amount.GrossCent,
		VatRate:         transaction.Amount.VatRate,
		Comment:         transaction.Comment,
		Status:          string(transaction.Status),
		PaymentStartURL: transaction.PaymentStartURL,
		EffectiveDate:   transaction.EffectiveDate,
		DueDate:         transaction.DueDate,
	})
	if err != nil {
		return payment.Transaction{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TransactionRepository) daoToDomain(record dao.Transaction) payment.Transaction {
	return payment.Transaction{
		DebitorID:             record.DebitorID,
		TransactionIdentifier: record.Identifier,
		TransactionType:       payment.TransactionType(record.Type),
		Method:                payment.Method(record.Method),
		Amount: payment.Amount{
			Currency:  record.Currency,
			GrossCent: record.GrossCent,
			VatRate:   record.VatRate,
		},
		Comment:         record.Comment,
		Status:          payment.Status(record.Status),
		PaymentStartURL: record.PaymentStartURL,
		EffectiveDate:   record.EffectiveDate,
		DueDate:         record.DueDate,
		CreationDate:    record.CreatedAt.Format("2006-01-02"),
	}
}
