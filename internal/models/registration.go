package models

import (
	"fmt"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

// Registration is one applicant's request to join a session. It is immutable.
type Registration struct {
	sessionID int64
	user      NsUser
	paymentID string
	amount    Money
}

// NewRegistration binds a payment to the applicant and the session it was made for.
func NewRegistration(sessionID int64, user *NsUser, payment *Payment) (*Registration, error) {
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "user is required")
	}
	if payment == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, "payment is required")
	}
	if payment.SessionID != sessionID {
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("payment belongs to session %d, not %d", payment.SessionID, sessionID))
	}
	amount, err := NewMoney(payment.Amount)
	if err != nil {
		return nil, err
	}
	return &Registration{sessionID: sessionID, user: *user, paymentID: payment.ID, amount: amount}, nil
}

// SessionID returns the target session.
func (r *Registration) SessionID() int64 { return r.sessionID }

// User returns the applicant.
func (r *Registration) User() NsUser { return r.user }

// PaymentID returns the backing payment reference.
func (r *Registration) PaymentID() string { return r.paymentID }

// Amount returns the paid amount.
func (r *Registration) Amount() Money { return r.amount }
