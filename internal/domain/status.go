package domain

import "strings"

type RegistrationStatus string

const (
	StatusUnsubmitted   RegistrationStatus = "unsubmitted"
	StatusNew           RegistrationStatus = "new"
	StatusApproved      RegistrationStatus = "approved"
	StatusPartiallyPaid RegistrationStatus = "partially-paid"
	StatusPaid          RegistrationStatus = "paid"
	StatusCheckedIn     RegistrationStatus = "checked-in"
	StatusCancelled     RegistrationStatus = "cancelled"
	StatusWaiting       RegistrationStatus = "waiting"
)

// NormalizeStatus maps backend status spellings ("partially paid") onto the
// dashed form used throughout this codebase.
func NormalizeStatus(s string) RegistrationStatus {
	return RegistrationStatus(strings.ReplaceAll(s, " ", "-"))
}

// IsPending reports whether the registration is submitted but not yet
// accepted into the payment flow.
func (s RegistrationStatus) IsPending() bool {
	return s == StatusNew || s == StatusWaiting
}

// IsApproved reports whether the registration has payment information
// attached to it.
func (s RegistrationStatus) IsApproved() bool {
	switch s {
	case StatusApproved, StatusPartiallyPaid, StatusPaid, StatusCheckedIn, StatusCancelled:
		return true
	default:
		return false
	}
}

// PaymentInfo summarizes the payment ledger for an approved registration.
// Paid and Due are in major currency units.
type PaymentInfo struct {
	Paid                float64 `json:"paid"`
	Due                 float64 `json:"due"`
	UnprocessedPayments bool    `json:"unprocessedPayments"`
}

// Registration is a registration as known to the backend, together with the
// reconstructed RegistrationInfo. PaymentInfo is present only for approved
// registrations.
type Registration struct {
	ID          uint               `json:"id,omitempty"`
	Status      RegistrationStatus `json:"status"`
	Info        RegistrationInfo   `json:"registrationInfo"`
	PaymentInfo *PaymentInfo       `json:"paymentInfo,omitempty"`
}

// Countdown gates whether registration is open. Countdown is the number of
// seconds until launch; zero or negative means registration is open.
type Countdown struct {
	Countdown   int64  `json:"countdown"`
	CurrentTime string `json:"currentTime"`
	TargetTime  string `json:"targetTime"`
}
