// Package payment holds the payment-service transaction wire types and the
// pure aggregation functions over them. Amounts are in minor currency units
// (cents); callers divide by 100 before handing sums to the invoice builder.
package payment

type TransactionType string

const (
	TypeDue     TransactionType = "due"
	TypePayment TransactionType = "payment"
)

type Method string

const (
	MethodCredit   Method = "credit"
	MethodPaypal   Method = "paypal"
	MethodTransfer Method = "transfer"
	MethodInternal Method = "internal"
	MethodGift     Method = "gift"
)

type Status string

const (
	StatusTentative Status = "tentative"
	StatusPending   Status = "pending"
	StatusValid     Status = "valid"
	StatusDeleted   Status = "deleted"
)

type Amount struct {
	Currency  string  `json:"currency"`
	GrossCent int64   `json:"gross_cent"`
	VatRate   float64 `json:"vat_rate"`
}

// Transaction is one payment-service ledger record. The JSON field names
// are part of the wire contract.
type Transaction struct {
	DebitorID             uint            `json:"debitor_id"`
	TransactionIdentifier string          `json:"transaction_identifier"`
	TransactionType       TransactionType `json:"transaction_type"`
	Method                Method          `json:"method"`
	Amount                Amount          `json:"amount"`
	Comment               string          `json:"comment"`
	Status                Status          `json:"status"`
	PaymentStartURL       string          `json:"payment_start_url"`
	EffectiveDate         string          `json:"effective_date"`
	DueDate               string          `json:"due_date"`
	CreationDate          string          `json:"creation_date"`
}

// TotalPaid sums the valid payments, in cents.
func TotalPaid(transactions []Transaction) int64 {
	var sum int64
	for _, t := range transactions {
		if t.Status == StatusValid && t.TransactionType == TypePayment {
			sum += t.Amount.GrossCent
		}
	}

	return sum
}

// OutstandingDues sums the valid ledger balance, in cents: dues add to the
// balance, payments subtract from it.
func OutstandingDues(transactions []Transaction) int64 {
	var sum int64
	for _, t := range transactions {
		if t.Status != StatusValid {
			continue
		}

		if t.TransactionType == TypeDue {
			sum += t.Amount.GrossCent
		} else {
			sum -= t.Amount.GrossCent
		}
	}

	return sum
}

// HasUnprocessedPayments reports whether any payment is still pending; a
// pending payment blocks starting another one.
func HasUnprocessedPayments(transactions []Transaction) bool {
	for _, t := range transactions {
		if t.Status == StatusPending && t.TransactionType == TypePayment {
			return true
		}
	}

	return false
}
