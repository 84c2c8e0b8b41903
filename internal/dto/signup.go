package dto

// TrialSignupRequest is the body of POST /api/signup/trial.
type TrialSignupRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=2,max=100"`
	LastName        string `json:"lastName" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,max=255,email"`
	Password        string `json:"password,omitempty" validate:"omitempty,min=8,max=72,maxbytes=72"`
	UserType        string `json:"userType" validate:"required,oneof=solo accountant"`
	Company         string `json:"company,omitempty" validate:"max=255"`
	MonthlyExpenses string `json:"monthlyExpenses" validate:"required,oneof=under-500 500-2000 2000-5000 over-5000"`
	CurrentTool     string `json:"currentTool,omitempty" validate:"max=255"`
	AgreeToTerms    bool   `json:"agreeToTerms" validate:"eq=true"`
}

// SubscriptionSignupRequest is the body of POST /api/signup/subscription
// (paid early access).
type SubscriptionSignupRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=2,max=100"`
	LastName        string `json:"lastName" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,max=255,email"`
	Password        string `json:"password" validate:"required,min=8,max=72,maxbytes=72"`
	UserType        string `json:"userType" validate:"required,oneof=solo accountant"`
	PlanType        string `json:"planType" validate:"required,oneof=monthly annual"`
	Company         string `json:"company,omitempty" validate:"max=255"`
	CurrentTool     string `json:"currentTool,omitempty" validate:"max=255"`
	ClientCount     string `json:"clientCount,omitempty" validate:"max=50"`
	PhoneNumber     string `json:"phoneNumber,omitempty" validate:"max=50"`
	ReferralSource  string `json:"referralSource,omitempty" validate:"max=255"`
	AgreeToTerms    bool   `json:"agreeToTerms" validate:"eq=true"`
	MarketingEmails *bool  `json:"marketingEmails,omitempty"`
}

// SignupResponse is returned by both signup endpoints on success.
type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
