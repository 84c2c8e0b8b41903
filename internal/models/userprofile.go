package models

import (
	"time"

	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeSolo       UserType = "solo"
	UserTypeAccountant UserType = "accountant"
)

func (t UserType) Valid() bool {
	return t == UserTypeSolo || t == UserTypeAccountant
}

type PlanType string

const (
	PlanMonthly PlanType = "monthly"
	PlanAnnual  PlanType = "annual"
)

func (p PlanType) Valid() bool {
	return p == PlanMonthly || p == PlanAnnual
}

// SignupKind tells which form a profile came through.
type SignupKind string

const (
	SignupTrial        SignupKind = "trial"
	SignupSubscription SignupKind = "subscription"
)

// Monthly expense buckets offered on the trial form.
const (
	ExpensesUnder500  = "under-500"
	Expenses500To2000 = "500-2000"
	Expenses2000To5k  = "2000-5000"
	ExpensesOver5000  = "over-5000"
)

// UserProfile is one row of the user_profiles table.
type UserProfile struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    *string   `json:"-" db:"password_hash"`
	FirstName       string    `json:"first_name" db:"first_name"`
	LastName        string    `json:"last_name" db:"last_name"`
	Company         *string   `json:"company,omitempty" db:"company"`
	UserType        UserType  `json:"user_type" db:"user_type"`
	MonthlyExpenses *string   `json:"monthly_expenses,omitempty" db:"monthly_expenses"`
	CurrentTool     *string   `json:"current_tool,omitempty" db:"current_tool"`
	PlanType        *PlanType `json:"plan_type,omitempty" db:"plan_type"`
	ClientCount     *string   `json:"client_count,omitempty" db:"client_count"`
	PhoneNumber     *string   `json:"phone_number,omitempty" db:"phone_number"`
	ReferralSource  *string   `json:"referral_source,omitempty" db:"referral_source"`
	MarketingEmails bool      `json:"marketing_emails" db:"marketing_emails"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// HasPassword reports whether the profile can sign in with a password.
// Trial signups made without a password cannot.
func (p *UserProfile) HasPassword() bool {
	return p.PasswordHash != nil && *p.PasswordHash != ""
}

// ProfileInput is a validated, normalized signup ready to be persisted.
// Password is plaintext and only lives until the store hashes it.
type ProfileInput struct {
	Kind            SignupKind
	Email           string
	Password        string
	FirstName       string
	LastName        string
	Company         *string
	UserType        UserType
	MonthlyExpenses *string
	CurrentTool     *string
	PlanType        *PlanType
	ClientCount     *string
	PhoneNumber     *string
	ReferralSource  *string
	MarketingEmails bool
}
