package entity

import "time"

// Company is one registrant. Verified only ever moves from false to true.
// Which of VerificationToken or OTP/OTPExpiry is populated depends on the
// verification mode the server runs with.
type Company struct {
	Base
	CompanyName       string     `db:"company_name"`
	Email             string     `db:"email"`
	PhoneNumber       string     `db:"phone_number"`
	Address           string     `db:"address"`
	PasswordHash      string     `db:"password_hash"`
	Verified          bool       `db:"verified"`
	VerificationToken *string    `db:"verification_token"`
	OTP               *string    `db:"otp"`
	OTPExpiry         *time.Time `db:"otp_expiry"`
}
