// Package fixtures holds the static test data shared by every suite: role
// credentials, the questionnaire field-type catalog, and receipt generation.
// All values are fixed at load and never mutated by tests.
package fixtures

import (
	"github.com/google/uuid"
)

// Credentials is the login material for one of the fixed test roles.
type Credentials struct {
	Username        string
	DefaultPassword string // password the instance ships with before first login
	UserPassword    string // password the role is switched to during setup
}

// Fixed role credentials of the seeded test instance.
var (
	Admin = Credentials{
		Username:        "admin",
		DefaultPassword: "tipline",
		UserPassword:    "ACollectionOfDiamonds",
	}

	Receiver1 = Credentials{
		Username:        "Recipient1",
		DefaultPassword: "tipline",
		UserPassword:    "ACollectionOfDiamonds",
	}

	Receiver2 = Credentials{
		Username:        "Recipient2",
		DefaultPassword: "tipline",
		UserPassword:    "ACollectionOfDiamonds",
	}
)

// FieldTypes is the ordered catalog of questionnaire field kinds the admin
// form builder offers. Suites that drive the questionnaire editor iterate it
// in this exact order.
var FieldTypes = []string{
	"Single-line text input",
	"Multi-line text input",
	"Selection box",
	"Multiple choice input",
	"Checkbox",
	"Attachment",
	"Terms of service",
	"Date",
	"Date range",
	"Group of questions",
}

// ReceiptDigits is the length of a whistleblower receipt code.
const ReceiptDigits = 16

// NewReceipt generates a random 16-digit receipt code in the format the
// platform hands to whistleblowers after a submission.
func NewReceipt() string {
	id := uuid.New()
	out := make([]byte, ReceiptDigits)
	for i, b := range id[:ReceiptDigits] {
		out[i] = '0' + b%10
	}
	return string(out)
}
