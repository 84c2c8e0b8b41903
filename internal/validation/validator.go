// Package validation checks signup forms before anything touches the store
// or the mail transport. Rules live in the `validate` tags of the dto types;
// this package normalizes input, runs the rules and turns failures into
// per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"finmatch-backend/internal/common"
	"finmatch-backend/internal/dto"
	"finmatch-backend/internal/models"
)

// messages holds the user-facing text per json field and failing tag.
var messages = map[string]map[string]string{
	"firstName": {
		"required": "First name is required",
		"min":      "First name must be at least 2 characters",
		"max":      "First name must be at most 100 characters",
	},
	"lastName": {
		"required": "Last name is required",
		"min":      "Last name must be at least 2 characters",
		"max":      "Last name must be at most 100 characters",
	},
	"email": {
		"required": "Email is required",
		"email":    "Please enter a valid email address",
		"max":      "Email must be at most 255 characters",
	},
	"password": {
		"required": "Password is required",
		"min":      "Password must be at least 8 characters",
		"max":      "Password must be at most 72 characters",
		"maxbytes": "Password must be at most 72 bytes",
	},
	"userType": {
		"required": "Please select how you'll use FinMatch",
		"oneof":    "User type must be solo or accountant",
	},
	"monthlyExpenses": {
		"required": "Please select your monthly expense range",
		"oneof":    "Monthly expenses must be one of under-500, 500-2000, 2000-5000, over-5000",
	},
	"planType": {
		"required": "Please select a billing plan",
		"oneof":    "Plan type must be monthly or annual",
	},
	"agreeToTerms": {
		"eq": "You must agree to the terms and conditions",
	},
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt hashes at most 72 bytes; max= counts characters
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return &Validator{v: v}
}

// ValidateTrial returns the normalized profile for a free-trial form, or
// common.FieldErrors when any rule fails.
func (val *Validator) ValidateTrial(req dto.TrialSignupRequest) (*models.ProfileInput, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)
	req.UserType = strings.TrimSpace(req.UserType)
	req.MonthlyExpenses = strings.TrimSpace(req.MonthlyExpenses)

	if err := val.check(req); err != nil {
		return nil, err
	}

	return &models.ProfileInput{
		Kind:            models.SignupTrial,
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Company:         optional(req.Company),
		UserType:        models.UserType(req.UserType),
		MonthlyExpenses: optional(req.MonthlyExpenses),
		CurrentTool:     optional(req.CurrentTool),
	}, nil
}

// ValidateSubscription returns the normalized profile for an early-access
// subscription form, or common.FieldErrors when any rule fails.
func (val *Validator) ValidateSubscription(req dto.SubscriptionSignupRequest) (*models.ProfileInput, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)
	req.UserType = strings.TrimSpace(req.UserType)
	req.PlanType = strings.TrimSpace(req.PlanType)

	if err := val.check(req); err != nil {
		return nil, err
	}

	plan := models.PlanType(req.PlanType)
	marketing := false
	if req.MarketingEmails != nil {
		marketing = *req.MarketingEmails
	}

	return &models.ProfileInput{
		Kind:            models.SignupSubscription,
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Company:         optional(req.Company),
		UserType:        models.UserType(req.UserType),
		CurrentTool:     optional(req.CurrentTool),
		PlanType:        &plan,
		ClientCount:     optional(req.ClientCount),
		PhoneNumber:     optional(req.PhoneNumber),
		ReferralSource:  optional(req.ReferralSource),
		MarketingEmails: marketing,
	}, nil
}

func (val *Validator) check(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	fields := common.FieldErrors{}
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = message(name, fe.Tag(), fe.Param())
	}
	return fields
}

func message(field, tag, param string) string {
	if m, ok := messages[field][tag]; ok {
		return m
	}
	switch tag {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	default:
		return field + " is invalid"
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optional turns an empty form value into an absent one. Non-empty values,
// whitespace included, pass through unmodified.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
