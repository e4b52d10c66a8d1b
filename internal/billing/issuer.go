package billing

import (
	"strconv"

	"github.com/jkeller/invoicegen/pkg/utils"
)

// Issuer is the party issuing invoices. One issuer is active per run.
type Issuer struct {
	Name        string
	AccountName string
	Bank        string
	Email       string
	Phone       int64
}

// NewIssuer validates and builds an issuer. The phone number must be exactly
// 10 digits, entered as an integer.
func NewIssuer(name, accountName, bank, email string, phone int64) (*Issuer, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, NewValidationError("email", email, "does not match the expected email shape")
	}
	if len(strconv.FormatInt(phone, 10)) != 10 {
		return nil, NewValidationError("phone", phone, "must be exactly 10 digits")
	}
	return &Issuer{
		Name:        name,
		AccountName: accountName,
		Bank:        bank,
		Email:       email,
		Phone:       phone,
	}, nil
}
