// Package signup runs a signup request end to end: validate, check the email
// is free, persist the profile, confirm to the user, alert the operator.
package signup

import (
	"context"
	"errors"
	"time"

	"finmatch-backend/internal/common"
	"finmatch-backend/internal/dto"
	"finmatch-backend/internal/email"
	"finmatch-backend/internal/logging"
	"finmatch-backend/internal/models"
	"finmatch-backend/internal/store"
	"finmatch-backend/internal/validation"
)

const (
	TrialMessage        = "Free trial signup successful! Check your email for confirmation."
	SubscriptionMessage = "Subscription signup successful! Check your email for confirmation."
)

// Pipeline steps, as they appear in logs.
const (
	stepValidate    = "validate"
	stepUniqueness  = "check_uniqueness"
	stepPersist     = "persist"
	stepNotifyUser  = "notify_user"
	stepNotifyAdmin = "notify_admin"
	stepCompensate  = "compensate"
)

const compensateTimeout = 5 * time.Second

// Notifier is the part of *email.Dispatcher the pipeline uses.
type Notifier interface {
	Send(ctx context.Context, kind email.Kind, recipient string, data email.Data) (*email.Receipt, error)
}

type Result struct {
	Message string
	Profile *models.UserProfile
}

type Service struct {
	validator  *validation.Validator
	store      store.UserStore
	notifier   Notifier
	adminEmail string
	log        logging.Logger
}

func NewService(v *validation.Validator, s store.UserStore, n Notifier, adminEmail string, log logging.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		validator:  v,
		store:      s,
		notifier:   n,
		adminEmail: adminEmail,
		log:        log.With("component", "signup"),
	}
}

// Trial handles the free trial form. A password is optional.
func (s *Service) Trial(ctx context.Context, req dto.TrialSignupRequest) (*Result, error) {
	in, err := s.validator.ValidateTrial(req)
	if err != nil {
		s.log.Info(ctx, "signup rejected", "kind", string(models.SignupTrial), "step", stepValidate, "error", err)
		return nil, err
	}
	return s.run(ctx, in, TrialMessage)
}

// Subscription handles the paid early-access form.
func (s *Service) Subscription(ctx context.Context, req dto.SubscriptionSignupRequest) (*Result, error) {
	in, err := s.validator.ValidateSubscription(req)
	if err != nil {
		s.log.Info(ctx, "signup rejected", "kind", string(models.SignupSubscription), "step", stepValidate, "error", err)
		return nil, err
	}
	return s.run(ctx, in, SubscriptionMessage)
}

func (s *Service) run(ctx context.Context, in *models.ProfileInput, message string) (*Result, error) {
	log := s.log.With("kind", string(in.Kind), "email", in.Email)

	_, err := s.store.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		log.Info(ctx, "signup rejected", "step", stepUniqueness, "error", common.ErrConflict)
		return nil, common.ErrConflict
	case !errors.Is(err, common.ErrNotFound):
		log.Error(ctx, "signup failed", "step", stepUniqueness, "error", err)
		return nil, err
	}

	profile, err := s.store.Create(ctx, in)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			// lost the race against a concurrent signup for the same email
			log.Info(ctx, "signup rejected", "step", stepPersist, "error", err)
		} else {
			log.Error(ctx, "signup failed", "step", stepPersist, "error", err)
		}
		return nil, err
	}
	log = log.With("profile_id", profile.ID.String())

	data := email.Data{Signup: in.Kind, Profile: profile}

	if _, err := s.notifier.Send(ctx, email.ConfirmationKind(in.Kind), profile.Email, data); err != nil {
		log.Error(ctx, "signup failed", "step", stepNotifyUser, "error", err)
		s.compensate(ctx, log, profile)
		return nil, err
	}

	if _, err := s.notifier.Send(ctx, email.KindAdminNotification, s.adminEmail, data); err != nil {
		log.Warn(ctx, "admin notification failed", "step", stepNotifyAdmin, "error", err)
	}

	log.Info(ctx, "signup completed")
	return &Result{Message: message, Profile: profile}, nil
}

// compensate removes a profile whose confirmation could not be delivered so
// the same email can sign up again.
func (s *Service) compensate(ctx context.Context, log logging.Logger, p *models.UserProfile) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, p.ID); err != nil {
		log.Error(ctx, "could not remove unconfirmed profile", "step", stepCompensate, "error", err)
		return
	}
	log.Info(ctx, "removed unconfirmed profile", "step", stepCompensate)
}
