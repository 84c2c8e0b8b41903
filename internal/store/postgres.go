package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"finmatch-backend/internal/common"
	"finmatch-backend/internal/models"
)

// Querier is the part of *pgxpool.Pool the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const defaultOpTimeout = 5 * time.Second

type PostgresStore struct {
	db       Querier
	hashCost int
	timeout  time.Duration
}

type Option func(*PostgresStore)

// WithHashCost sets the bcrypt cost used by Create.
func WithHashCost(cost int) Option {
	return func(s *PostgresStore) { s.hashCost = cost }
}

// WithTimeout bounds every call, including the wait for a free pool
// connection. A call that runs out of time fails with ErrTransientStore.
func WithTimeout(d time.Duration) Option {
	return func(s *PostgresStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewPostgresStore(db Querier, opts ...Option) *PostgresStore {
	s := &PostgresStore{db: db, hashCost: bcrypt.DefaultCost, timeout: defaultOpTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

const profileColumns = `id, email, password_hash, first_name, last_name, company, user_type,
	monthly_expenses, current_tool, plan_type, client_count, phone_number,
	referral_source, marketing_emails, created_at, updated_at`

// FindByEmail compares emails case-insensitively; the unique index is on
// lower(email) as well.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := `SELECT ` + profileColumns + ` FROM user_profiles WHERE lower(email) = lower($1)`
	p, err := scanProfile(s.db.QueryRow(ctx, q, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, classify("find profile by email", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := `SELECT ` + profileColumns + ` FROM user_profiles WHERE id = $1`
	p, err := scanProfile(s.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, classify("find profile by id", err)
	}
	return p, nil
}

// Create inserts a new profile. The password, when present, is hashed here
// and the plaintext is not kept on the returned profile.
func (s *PostgresStore) Create(ctx context.Context, in *models.ProfileInput) (*models.UserProfile, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	p := &models.UserProfile{
		ID:              uuid.New(),
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Company:         in.Company,
		UserType:        in.UserType,
		MonthlyExpenses: in.MonthlyExpenses,
		CurrentTool:     in.CurrentTool,
		PlanType:        in.PlanType,
		ClientCount:     in.ClientCount,
		PhoneNumber:     in.PhoneNumber,
		ReferralSource:  in.ReferralSource,
		MarketingEmails: in.MarketingEmails,
	}
	if in.Password != "" {
		h, err := HashPassword(in.Password, s.hashCost)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = &h
	}

	var plan *string
	if p.PlanType != nil {
		v := string(*p.PlanType)
		plan = &v
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	const q = `
INSERT INTO user_profiles (
	id, email, password_hash, first_name, last_name, company, user_type,
	monthly_expenses, current_tool, plan_type, client_count,
	phone_number, referral_source, marketing_emails
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, q,
		p.ID, p.Email, p.PasswordHash, p.FirstName, p.LastName, p.Company, string(p.UserType),
		p.MonthlyExpenses, p.CurrentTool, plan, p.ClientCount,
		p.PhoneNumber, p.ReferralSource, p.MarketingEmails,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, classify("create profile", err)
	}
	return p, nil
}

// Delete removes a profile. The signup pipeline uses it only to undo a
// profile whose confirmation email could not be sent.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM user_profiles WHERE id = $1`, id)
	if err != nil {
		return classify("delete profile", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) VerifyPassword(plaintext, hash string) bool {
	return VerifyPassword(plaintext, hash)
}

func checkInput(in *models.ProfileInput) error {
	fields := common.FieldErrors{}
	if in == nil {
		return fmt.Errorf("%w: nil profile input", common.ErrValidation)
	}
	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "email is required"
	}
	if strings.TrimSpace(in.FirstName) == "" {
		fields["firstName"] = "first name is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields["lastName"] = "last name is required"
	}
	if !in.UserType.Valid() {
		fields["userType"] = "user type must be solo or accountant"
	}
	if in.PlanType != nil && !in.PlanType.Valid() {
		fields["planType"] = "plan type must be monthly or annual"
	}
	if in.Kind == models.SignupSubscription && in.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var (
		p        models.UserProfile
		userType string
		plan     *string
	)
	err := row.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName, &p.Company, &userType,
		&p.MonthlyExpenses, &p.CurrentTool, &plan, &p.ClientCount, &p.PhoneNumber,
		&p.ReferralSource, &p.MarketingEmails, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.UserType = models.UserType(userType)
	if plan != nil {
		pt := models.PlanType(*plan)
		p.PlanType = &pt
	}
	return &p, nil
}
