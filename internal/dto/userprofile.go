package dto

import (
	"time"

	"finmatch-backend/internal/models"
)

// ProfileResponse is the public view of a user profile. It never carries the
// password hash.
type ProfileResponse struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Company         *string `json:"company"`
	UserType        string  `json:"user_type"`
	MonthlyExpenses *string `json:"monthly_expenses"`
	CurrentTool     *string `json:"current_tool"`
	PlanType        *string `json:"plan_type"`
	ClientCount     *string `json:"client_count"`
	PhoneNumber     *string `json:"phone_number"`
	ReferralSource  *string `json:"referral_source"`
	MarketingEmails bool    `json:"marketing_emails"`
	CreatedAt       string  `json:"created_at"` // RFC3339
	UpdatedAt       string  `json:"updated_at"` // RFC3339
}

// NewProfileResponse maps a stored profile to its API shape.
func NewProfileResponse(p *models.UserProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:              p.ID.String(),
		Email:           p.Email,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Company:         p.Company,
		UserType:        string(p.UserType),
		MonthlyExpenses: p.MonthlyExpenses,
		CurrentTool:     p.CurrentTool,
		ClientCount:     p.ClientCount,
		PhoneNumber:     p.PhoneNumber,
		ReferralSource:  p.ReferralSource,
		MarketingEmails: p.MarketingEmails,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
	if p.PlanType != nil {
		s := string(*p.PlanType)
		resp.PlanType = &s
	}
	return resp
}
