package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tx(txType TransactionType, status Status, grossCent int64) Transaction {
	return Transaction{
		DebitorID:       1,
		TransactionType: txType,
		Method:          MethodCredit,
		Status:          status,
		Amount: Amount{
			Currency:  "EUR",
			GrossCent: grossCent,
			VatRate:   19,
		},
	}
}

func TestTotalPaid(t *testing.T) {
	transactions := []Transaction{
		tx(TypeDue, StatusValid, 16500),
		tx(TypePayment, StatusValid, 5000),
		tx(TypePayment, StatusValid, 2500),
		tx(TypePayment, StatusPending, 9000),
		tx(TypePayment, StatusDeleted, 1000),
		tx(TypePayment, StatusTentative, 500),
	}

	// Only valid payments count; dues and non-valid payments do not.
	assert.Equal(t, int64(7500), TotalPaid(transactions))
}

func TestTotalPaid_Empty(t *testing.T) {
	assert.Equal(t, int64(0), TotalPaid(nil))
}

func TestOutstandingDues(t *testing.T) {
	transactions := []Transaction{
		tx(TypeDue, StatusValid, 16500),
		tx(TypePayment, StatusValid, 5000),
		tx(TypeDue, StatusPending, 4000),
		tx(TypePayment, StatusDeleted, 2000),
	}

	// 16500 due minus 5000 paid; pending and deleted entries are ignored.
	assert.Equal(t, int64(11500), OutstandingDues(transactions))
}

func TestOutstandingDues_Overpaid(t *testing.T) {
	transactions := []Transaction{
		tx(TypeDue, StatusValid, 16500),
		tx(TypePayment, StatusValid, 20000),
	}

	assert.Equal(t, int64(-3500), OutstandingDues(transactions))
}

func TestHasUnprocessedPayments(t *testing.T) {
	assert.False(t, HasUnprocessedPayments(nil))

	assert.False(t, HasUnprocessedPayments([]Transaction{
		tx(TypeDue, StatusPending, 16500),
		tx(TypePayment, StatusValid, 5000),
	}))

	assert.True(t, HasUnprocessedPayments([]Transaction{
		tx(TypePayment, StatusPending, 5000),
	}))
}
