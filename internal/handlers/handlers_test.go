package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"finmatch-backend/internal/common"
	"finmatch-backend/internal/config"
	"finmatch-backend/internal/dto"
	"finmatch-backend/internal/email"
	"finmatch-backend/internal/logging"
	"finmatch-backend/internal/middleware"
	"finmatch-backend/internal/models"
	"finmatch-backend/internal/signup"
	"finmatch-backend/internal/store"
	"finmatch-backend/internal/validation"
)

type memStore struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
	findErr  error
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]*models.UserProfile{}}
}

func (m *memStore) FindByEmail(_ context.Context, addr string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if p, ok := m.profiles[strings.ToLower(strings.TrimSpace(addr))]; ok {
		return p, nil
	}
	return nil, common.ErrNotFound
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memStore) Create(_ context.Context, in *models.ProfileInput) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[in.Email]; ok {
		return nil, common.ErrConflict
	}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &models.UserProfile{
		ID:              uuid.New(),
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		UserType:        in.UserType,
		MonthlyExpenses: in.MonthlyExpenses,
		PlanType:        in.PlanType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Password != "" {
		h, err := store.HashPassword(in.Password, bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = &h
	}
	m.profiles[in.Email] = p
	return p, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, p := range m.profiles {
		if p.ID == id {
			delete(m.profiles, k)
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *memStore) VerifyPassword(plaintext, hash string) bool {
	return store.VerifyPassword(plaintext, hash)
}

type fakeNotifier struct {
	mu      sync.Mutex
	userErr error
	sent    []email.Kind
}

func (f *fakeNotifier) Send(_ context.Context, kind email.Kind, to string, _ email.Data) (*email.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, kind)
	if kind != email.KindAdminNotification && f.userErr != nil {
		return nil, f.userErr
	}
	return &email.Receipt{MessageID: "<1@finmatch.io>", Kind: kind, Recipient: to}, nil
}

func newSignupHandler(st store.UserStore, n signup.Notifier) *SignupHandler {
	svc := signup.NewService(validation.New(), st, n, "ops@finmatch.io", logging.Discard())
	return NewSignupHandler(svc)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

const adaTrial = `{
	"firstName": "Ada",
	"lastName": "Lovelace",
	"email": "ada@example.com",
	"userType": "solo",
	"monthlyExpenses": "under-500",
	"agreeToTerms": true
}`

func TestSignupTrial_EndToEnd(t *testing.T) {
	st := newMemStore()
	n := &fakeNotifier{}
	h := newSignupHandler(st, n)

	rec := post(h.Trial, adaTrial)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"success":true,"message":"Free trial signup successful! Check your email for confirmation."}`,
		rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	p, err := st.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeSolo, p.UserType)
	assert.False(t, p.HasPassword())
	assert.Equal(t, []email.Kind{email.KindTrialConfirmation, email.KindAdminNotification}, n.sent)
}

func TestSignupTrial_DuplicateEmail(t *testing.T) {
	st := newMemStore()
	h := newSignupHandler(st, &fakeNotifier{})
	require.Equal(t, http.StatusOK, post(h.Trial, adaTrial).Code)

	rec := post(h.Trial, strings.Replace(adaTrial, "ada@example.com", "ADA@example.com", 1))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Email already registered", body.Error)
	assert.Len(t, st.profiles, 1)
}

func TestSignupTrial_ValidationFields(t *testing.T) {
	n := &fakeNotifier{}
	h := newSignupHandler(newMemStore(), n)

	rec := post(h.Trial, `{"firstName":"Ada","lastName":"Lovelace","email":"not-an-email","agreeToTerms":true,"monthlyExpenses":"under-500"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Missing or invalid fields", body.Error)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "userType")
	assert.Empty(t, n.sent)
}

func TestSignupTrial_DeliveryFailureIs500(t *testing.T) {
	st := newMemStore()
	n := &fakeNotifier{userErr: &common.DeliveryError{
		Kind:  string(email.KindTrialConfirmation),
		Stage: "verify",
		Err:   errors.New("535 5.7.8 bad credentials"),
	}}
	h := newSignupHandler(st, n)

	rec := post(h.Trial, adaTrial)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "535")
	assert.Empty(t, st.profiles, "profile is removed so the user can resubmit")
}

func TestSignupTrial_StoreUnavailableIs500(t *testing.T) {
	st := newMemStore()
	st.findErr = common.ErrTransientStore
	h := newSignupHandler(st, &fakeNotifier{})

	rec := post(h.Trial, adaTrial)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to process signup")
}

func TestSignup_BadJSON(t *testing.T) {
	h := newSignupHandler(newMemStore(), &fakeNotifier{})

	for name, fn := range map[string]http.HandlerFunc{"trial": h.Trial, "subscription": h.Subscription} {
		t.Run(name, func(t *testing.T) {
			rec := post(fn, `{"firstName":`)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid request body")
		})
	}
}

func TestSignupSubscription_Success(t *testing.T) {
	st := newMemStore()
	n := &fakeNotifier{}
	h := newSignupHandler(st, n)

	rec := post(h.Subscription, `{
		"firstName": "Grace",
		"lastName": "Hopper",
		"email": "grace@example.com",
		"password": "correct horse battery",
		"userType": "accountant",
		"planType": "annual",
		"clientCount": "11-25",
		"agreeToTerms": true
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"success":true,"message":"Subscription signup successful! Check your email for confirmation."}`,
		rec.Body.String())
	assert.Equal(t, []email.Kind{email.KindSubscriptionConfirmation, email.KindAdminNotification}, n.sent)
}

func TestSignupSubscription_MissingPassword(t *testing.T) {
	st := newMemStore()
	h := newSignupHandler(st, &fakeNotifier{})

	rec := post(h.Subscription, `{"firstName":"Grace","lastName":"Hopper","email":"grace@example.com","userType":"solo","planType":"monthly","agreeToTerms":true}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"password"`)
	assert.Empty(t, st.profiles)
}

func TestSignupSubscription_OverlongFieldsAre400(t *testing.T) {
	st := newMemStore()
	h := newSignupHandler(st, &fakeNotifier{})

	rec := post(h.Subscription, `{
		"firstName": "Grace",
		"lastName": "Hopper",
		"email": "grace@example.com",
		"password": "`+strings.Repeat("p", 80)+`",
		"userType": "solo",
		"planType": "monthly",
		"phoneNumber": "`+strings.Repeat("5", 60)+`",
		"agreeToTerms": true
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "password")
	assert.Contains(t, body.Fields, "phoneNumber")
	assert.Empty(t, st.profiles)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		db   Pinger
		want string
	}{
		{"connected", stubPinger{}, "connected"},
		{"ping fails", stubPinger{err: errors.New("connection refused")}, "disconnected"},
		{"no database", nil, "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db)
			h.now = func() time.Time { return fixed }

			rec := httptest.NewRecorder()
			h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var body dto.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "ok", body.Status)
			assert.Equal(t, tt.want, body.Database)
			assert.Equal(t, "2025-03-01T12:00:00Z", body.Timestamp)
		})
	}
}

func TestReadinessCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(stubPinger{}).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(stubPinger{err: errors.New("down")}).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "down")
}

func TestLivenessCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil).LivenessCheck(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

var testJWT = &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour}

func seedSubscriber(t *testing.T, st *memStore) *models.UserProfile {
	t.Helper()
	plan := models.PlanMonthly
	p, err := st.Create(context.Background(), &models.ProfileInput{
		Kind:      models.SignupSubscription,
		Email:     "grace@example.com",
		Password:  "correct horse battery",
		FirstName: "Grace",
		LastName:  "Hopper",
		UserType:  models.UserTypeSolo,
		PlanType:  &plan,
	})
	require.NoError(t, err)
	return p
}

func TestLogin(t *testing.T) {
	st := newMemStore()
	grace := seedSubscriber(t, st)
	_, err := st.Create(context.Background(), &models.ProfileInput{
		Kind:      models.SignupTrial,
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		UserType:  models.UserTypeSolo,
	})
	require.NoError(t, err)

	h := NewAuthHandler(st, testJWT, logging.Discard())

	t.Run("success", func(t *testing.T) {
		rec := post(h.Login, `{"email":"Grace@Example.com","password":"correct horse battery"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body dto.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, grace.ID.String(), body.User.ID)
		assert.NotContains(t, rec.Body.String(), "password")

		claims, err := middleware.ValidateToken(body.Token, testJWT)
		require.NoError(t, err)
		assert.Equal(t, grace.ID, claims.UserID)
	})

	unauthorized := map[string]string{
		"wrong password":   `{"email":"grace@example.com","password":"nope-nope-nope"}`,
		"unknown email":    `{"email":"nobody@example.com","password":"correct horse battery"}`,
		"trial without pw": `{"email":"ada@example.com","password":"anything-at-all"}`,
	}
	for name, body := range unauthorized {
		t.Run(name, func(t *testing.T) {
			rec := post(h.Login, body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid credentials")
		})
	}

	t.Run("missing fields", func(t *testing.T) {
		rec := post(h.Login, `{"email":"grace@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin_StoreError(t *testing.T) {
	st := newMemStore()
	st.findErr = common.ErrTransientStore
	h := NewAuthHandler(st, testJWT, logging.Discard())

	rec := post(h.Login, `{"email":"grace@example.com","password":"correct horse battery"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProfileGet(t *testing.T) {
	st := newMemStore()
	grace := seedSubscriber(t, st)
	h := NewProfileHandler(st)

	get := func(ctx context.Context) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.Get(rec, req)
		return rec
	}

	t.Run("found", func(t *testing.T) {
		rec := get(middleware.WithIdentity(context.Background(), models.Identity{UserID: grace.ID, Email: grace.Email}))
		require.Equal(t, http.StatusOK, rec.Code)

		var body dto.ProfileResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "grace@example.com", body.Email)
		require.NotNil(t, body.PlanType)
		assert.Equal(t, "monthly", *body.PlanType)
		assert.NotContains(t, rec.Body.String(), "$2a$")
	})

	t.Run("no identity", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(context.Background()).Code)
	})

	t.Run("deleted profile", func(t *testing.T) {
		rec := get(middleware.WithIdentity(context.Background(), models.Identity{UserID: uuid.New()}))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
