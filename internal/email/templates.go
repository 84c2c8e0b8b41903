package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/google/uuid"

	"finmatch-backend/internal/models"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

var trialFeatures = []string{
	"Email receipt extraction (Gmail & Outlook)",
	"Bank transaction sync via Plaid",
	"AI-powered receipt matching",
	"Tax-ready categorization",
	"Export to CSV or TurboTax format",
	"Email support during trial",
}

var earlyAccessBenefits = []string{
	"50% off regular pricing for first 6 months",
	"Priority customer support",
	"Direct feedback line to our product team",
	"Exclusive webinars and training sessions",
	"Advanced features before general release",
	"Free migration assistance from current tools",
}

var earlyAccessNextSteps = []string{
	"We'll contact you within 48 hours with next steps",
	"You'll receive early access details and setup instructions",
	"Our team will help you migrate from your current tools",
	"You'll get exclusive training on advanced features",
}

var subjects = map[Kind]string{
	KindTrialConfirmation:        "Welcome to FinMatch Service - Your Free Trial is Starting!",
	KindSubscriptionConfirmation: "Welcome to FinMatch Early Access Program!",
}

type field struct {
	Label string
	Value string
}

// view is the flattened template context; templates never see nil pointers.
type view struct {
	Signup     string
	FirstName  string
	LastName   string
	Email      string
	Mode       string
	Plan       string
	Price      string
	SignedUpAt string
	Year       int

	Features  []string
	Benefits  []string
	NextSteps []string
	Fields    []field
	Checklist []string
}

type renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func newRenderer() (*renderer, error) {
	h, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	t, err := texttemplate.New("").
		Funcs(texttemplate.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &renderer{html: h, text: t}, nil
}

func (r *renderer) render(kind Kind, data Data, now time.Time) (subject, text, html string, err error) {
	if data.Profile == nil {
		return "", "", "", errors.New("no profile to render")
	}
	v := newView(data, now)

	switch kind {
	case KindTrialConfirmation, KindSubscriptionConfirmation:
		subject = subjects[kind]
	case KindAdminNotification:
		subject = fmt.Sprintf("New %s signup: %s %s <%s>", v.Signup, v.FirstName, v.LastName, v.Email)
	default:
		return "", "", "", fmt.Errorf("unknown email kind %q", kind)
	}

	var tb, hb bytes.Buffer
	if err := r.text.ExecuteTemplate(&tb, string(kind)+".txt", v); err != nil {
		return "", "", "", err
	}
	if err := r.html.ExecuteTemplate(&hb, string(kind)+".html", v); err != nil {
		return "", "", "", err
	}
	return subject, tb.String(), hb.String(), nil
}

func newView(data Data, now time.Time) view {
	p := data.Profile
	v := view{
		Signup:     string(data.Signup),
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Mode:       modeName(p.UserType),
		SignedUpAt: signedUpAt(p, now).Format(time.RFC1123),
		Year:       now.Year(),
		Features:   trialFeatures,
		Benefits:   earlyAccessBenefits,
		NextSteps:  earlyAccessNextSteps,
	}
	if p.PlanType != nil {
		v.Plan = string(*p.PlanType)
		v.Price = Price(p.UserType, *p.PlanType)
	}
	v.Fields = payload(data)
	v.Checklist = Checklist(data)
	return v
}

func signedUpAt(p *models.UserProfile, now time.Time) time.Time {
	if p.CreatedAt.IsZero() {
		return now
	}
	return p.CreatedAt
}

func modeName(t models.UserType) string {
	switch t {
	case models.UserTypeSolo:
		return "Solo"
	case models.UserTypeAccountant:
		return "Accountant"
	}
	return string(t)
}

// Price is the list price shown to early-access subscribers.
func Price(t models.UserType, plan models.PlanType) string {
	monthly, annual := "$29", "$290"
	if t == models.UserTypeAccountant {
		monthly, annual = "$89", "$890"
	}
	if plan == models.PlanAnnual {
		return annual + "/year"
	}
	return monthly + "/month"
}

// payload lists every submitted field for the operator. The password is
// never part of it; only whether one was set.
func payload(data Data) []field {
	p := data.Profile
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	opt := func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	}

	fields := []field{
		{"Signup", string(data.Signup)},
		{"First name", p.FirstName},
		{"Last name", p.LastName},
		{"Email", p.Email},
		{"User type", string(p.UserType)},
		{"Company", opt(p.Company)},
		{"Current tool", opt(p.CurrentTool)},
	}
	if data.Signup == models.SignupTrial {
		fields = append(fields, field{"Monthly expenses", opt(p.MonthlyExpenses)})
	}
	if p.PlanType != nil {
		fields = append(fields, field{"Plan", string(*p.PlanType) + " (" + Price(p.UserType, *p.PlanType) + ")"})
	}
	fields = append(fields,
		field{"Client count", opt(p.ClientCount)},
		field{"Phone", opt(p.PhoneNumber)},
		field{"Referral source", opt(p.ReferralSource)},
		field{"Marketing emails", yesNo(p.MarketingEmails)},
		field{"Password set", yesNo(p.HasPassword())},
	)
	if p.ID != uuid.Nil {
		fields = append(fields, field{"Profile ID", p.ID.String()})
	}
	return fields
}

// Checklist returns the manual follow-up actions for the operator.
func Checklist(data Data) []string {
	p := data.Profile
	mode := modeName(p.UserType)

	var items []string
	switch data.Signup {
	case models.SignupSubscription:
		items = append(items, "Contact within 48 hours with next steps")
		if p.PlanType != nil {
			items = append(items, fmt.Sprintf("Set up %s billing at %s with the early-access discount",
				*p.PlanType, Price(p.UserType, *p.PlanType)))
		}
		if p.CurrentTool != nil {
			items = append(items, "Schedule migration assistance from "+*p.CurrentTool)
		}
		if p.UserType == models.UserTypeAccountant && p.ClientCount != nil {
			items = append(items, "Size accountant onboarding for "+*p.ClientCount+" clients")
		}
		items = append(items, "Invite to the next early-access training webinar")
	default:
		items = append(items,
			"Send setup instructions within 24 hours",
			fmt.Sprintf("Activate the 30-day %s Mode trial", mode),
		)
		if p.CurrentTool != nil {
			items = append(items, "Offer import from "+*p.CurrentTool)
		}
		if !p.HasPassword() {
			items = append(items, "Send an invite to set a password")
		}
		items = append(items, "Follow up before the trial ends")
	}
	if p.MarketingEmails {
		items = append(items, "Add to the marketing list")
	}
	return items
}
