package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/config"
	domainErrors "github.com/Wandor/journaling-node/internal/domain/errors"
	"github.com/Wandor/journaling-node/internal/domain/models"
)

// MockUserStore is a mock implementation of interfaces.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserStore) RecordFailedLogin(ctx context.Context, id uuid.UUID, lockOut bool) error {
	args := m.Called(ctx, id, lockOut)
	return args.Error(0)
}
func (m *MockUserStore) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockUserStore) RecordOTPSend(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockUserStore) ReactivateAccount(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockPasswordStore is a mock implementation of interfaces.PasswordStore.
type MockPasswordStore struct {
	mock.Mock
}

func (m *MockPasswordStore) FindActive(ctx context.Context, userID uuid.UUID) (*models.Password, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Password), args.Error(1)
}
func (m *MockPasswordStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPasswordStore) Rotate(ctx context.Context, userID uuid.UUID, hash string, expiry time.Time) error {
	args := m.Called(ctx, userID, hash, expiry)
	return args.Error(0)
}
func (m *MockPasswordStore) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockPreferencesStore is a mock implementation of interfaces.PreferencesStore.
type MockPreferencesStore struct {
	mock.Mock
}

func (m *MockPreferencesStore) Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreferences), args.Error(1)
}

// MockSessionStore is a mock implementation of interfaces.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) GetSession(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}
func (m *MockSessionStore) PutSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
func (m *MockSessionStore) DeleteSession(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockHasher is a mock implementation of interfaces.PasswordHasher.
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}
func (m *MockHasher) Verify(digest, plaintext string) (bool, error) {
	args := m.Called(digest, plaintext)
	return args.Bool(0), args.Error(1)
}

// MockTokenMinter is a mock implementation of TokenMinter.
type MockTokenMinter struct {
	mock.Mock
}

func (m *MockTokenMinter) MintAccessToken(userID uuid.UUID, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	users     *MockUserStore
	passwords *MockPasswordStore
	prefs     *MockPreferencesStore
	sessions  *MockSessionStore
	hasher    *MockHasher
	tokens    *MockTokenMinter
	svc       *AuthService

	now    time.Time
	userID uuid.UUID
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.users = new(MockUserStore)
	s.passwords = new(MockPasswordStore)
	s.prefs = new(MockPreferencesStore)
	s.sessions = new(MockSessionStore)
	s.hasher = new(MockHasher)
	s.tokens = new(MockTokenMinter)

	cfg := &config.Config{}
	cfg.Security.AccountLockMaxCount = 5
	cfg.Security.PasswordExpiryDays = 90
	cfg.JWT.RefreshExpiryMinutes = 10080
	cfg.OTP.Digits = 6
	cfg.OTP.ExpiryMinutes = 5
	cfg.OTP.ResendMaxCount = 3
	cfg.OTP.SendMaxHours = 1

	s.svc = NewAuthService(s.users, s.passwords, s.prefs, s.sessions, s.hasher, s.tokens, nil, cfg, zap.NewNop())
	s.now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	s.svc.now = func() time.Time { return s.now }
	s.userID = uuid.New()
}

func (s *AuthServiceTestSuite) activeUser() *models.User {
	return &models.User{
		ID:           s.userID,
		EmailAddress: "user@example.com",
		Role:         "user",
		Status:       true,
	}
}

func (s *AuthServiceTestSuite) activePassword() *models.Password {
	return &models.Password{
		ID:             uuid.New(),
		UserID:         s.userID,
		Password:       "digest",
		PasswordExpiry: s.now.AddDate(0, 0, 30),
		IsActive:       true,
	}
}

func (s *AuthServiceTestSuite) loginRequest() models.LoginRequest {
	return models.LoginRequest{EmailAddress: "user@example.com", Password: "correct-horse"}
}

func (s *AuthServiceTestSuite) TestLoginUnknownUser() {
	s.users.On("FindByEmail", mock.Anything, "user@example.com").Return(nil, domainErrors.ErrUserNotFound)

	result, err := s.svc.Login(context.Background(), s.loginRequest(), "10.0.0.1")

	s.Require().ErrorIs(err, domainErrors.ErrUserNotFound)
	s.Nil(result)
}

func (s *AuthServiceTestSuite) TestLoginLockedAccount() {
	user := s.activeUser()
	user.IsLockedOut = true
	s.users.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)

	_, err := s.svc.Login(context.Background(), s.loginRequest(), "10.0.0.1")

	s.Require().ErrorIs(err, domainErrors.ErrUserLockedOut)
}

func (s *AuthServiceTestSuite) TestLoginExpiredPasswordDeactivates() {
	pw := s.activePassword()
	pw.PasswordExpiry = s.now.Add(-time.Hour)
	s.users.On("FindByEmail", mock.Anything, "user@example.com").Return(s.activeUser(), nil)
	s.passwords.On("FindActive", mock.Anything, s.userID).Return(pw, nil)
	s.passwords.On("Deactivate", mock.Anything, pw.ID).Return(nil)

	_, err := s.svc.Login(context.Background(), s.loginRequest(), "10.0.0.1")

	s.Require().ErrorIs(err, domainErrors.ErrPasswordExpired)
	s.passwords.AssertCalled(s.T(), "Deactivate", mock.Anything, pw.ID)
}

func (s *AuthServiceTestSuite) TestLoginWrongPasswordCountsTowardLockout() {
	user := s.activeUser()
	user.AccessFailedCount = 4
	s.users.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)
	s.passwords.On("FindActive", mock.Anything, s.userID).Return(s.activePassword(), nil)
	s.hasher.On("Verify", "digest", "correct-horse").Return(false, nil)
	s.users.On("RecordFailedLogin", mock.Anything, s.userID, true).Return(nil)

	_, err := s.svc.Login(context.Background(), s.loginRequest(), "10.0.0.1")

	s.Require().ErrorIs(err, domainErrors.ErrInvalidCredentials)
	// The fifth failure crosses the threshold, so the same write locks out.
	s.users.AssertCalled(s.T(), "RecordFailedLogin", mock.Anything, s.userID, true)
}

func (s *AuthServiceTestSuite) TestLoginWithoutTwoFactorReturnsTokens() {
	s.users.On("FindByEmail", mock.Anything, "user@example.com").Return(s.activeUser(), nil)
	s.passwords.On("FindActive", mock.Anything, s.userID).Return(s.activePassword(), nil)
	s.hasher.On("Verify", "digest", "correct-horse").Return(true, nil)
	s.prefs.On("Get", mock.Anything, s.userID).Return(nil, domainErrors.ErrNotFound)
	s.tokens.On("MintAccessToken", s.userID, "user").Return("access-token", nil)
	s.users.On("RecordLogin", mock.Anything, s.userID, s.now).Return(nil)

	var stored *models.Session
	s.sessions.On("PutSession", mock.Anything, mock.AnythingOfType("*models.Session")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Session) }).
		Return(nil)

	result, err := s.svc.Login(context.Background(), s.loginRequest(), "10.0.0.1")

	s.Require().NoError(err)
	s.False(result.TwoFactor)
	s.Equal("access-token", result.Tokens.Token)
	s.NotEmpty(result.Tokens.RefreshToken)

	s.Require().NotNil(stored)
	s.True(stored.SessionStatus)
	s.True(stored.OTPVerified)
	s.Equal(result.Tokens.RefreshToken, stored.RefreshToken)
	s.Equal(s.now.Add(10080*time.Minute), stored.RefreshTokenExpiry)
}

func (s *AuthServiceTestSuite) TestLoginWithTwoFactorIssuesChallenge() {
	s.users.On("FindByEmail", mock.Anything, "user@example.com").Return(s.activeUser(), nil)
	s.passwords.On("FindActive", mock.Anything, s.userID).Return(s.activePassword(), nil)
	s.hasher.On("Verify", "digest", "correct-horse").Return(true, nil)
	s.prefs.On("Get", mock.Anything, s.userID).Return(&models.UserPreferences{TwoFactorEnabled: true}, nil)
	s.tokens.On("MintAccessToken", s.userID, "user").Return("access-token", nil)
	s.hasher.On("Hash", mock.AnythingOfType("string")).Return("otp-digest", nil)
	s.users.On("RecordOTPSend", mock.Anything, s.userID, s.now).Return(nil)

	var stored *models.Session
	s.sessions.On("PutSession", mock.Anything, mock.AnythingOfType("*models.Session")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Session) }).
		Return(nil)

	result, err := s.svc.Login(context.Background(), s.loginRequest(), "10.0.0.1")

	s.Require().NoError(err)
	s.True(result.TwoFactor)
	s.Len(result.OTP, 6)
	s.Nil(result.Tokens)
	s.Equal(s.userID, result.UserID)

	s.Require().NotNil(stored)
	s.False(stored.OTPVerified)
	s.Equal("otp-digest", stored.OTPValue)
	s.Equal(s.now.Add(5*time.Minute), stored.OTPExpiry)
}

func (s *AuthServiceTestSuite) TestLoginOTPRateLimited() {
	user := s.activeUser()
	user.OTPResendCount = 3
	last := s.now.Add(-10 * time.Minute)
	user.LastOTPResendDate = &last

	s.users.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)
	s.passwords.On("FindActive", mock.Anything, s.userID).Return(s.activePassword(), nil)
	s.hasher.On("Verify", "digest", "correct-horse").Return(true, nil)
	s.prefs.On("Get", mock.Anything, s.userID).Return(&models.UserPreferences{TwoFactorEnabled: true}, nil)
	s.tokens.On("MintAccessToken", s.userID, "user").Return("access-token", nil)

	_, err := s.svc.Login(context.Background(), s.loginRequest(), "10.0.0.1")

	s.Require().ErrorIs(err, domainErrors.ErrRateLimitExceeded)
	s.sessions.AssertNotCalled(s.T(), "PutSession", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLoginOTPCeilingLiftsAfterCooldown() {
	user := s.activeUser()
	user.OTPResendCount = 3
	last := s.now.Add(-2 * time.Hour)
	user.LastOTPResendDate = &last

	s.users.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)
	s.passwords.On("FindActive", mock.Anything, s.userID).Return(s.activePassword(), nil)
	s.hasher.On("Verify", "digest", "correct-horse").Return(true, nil)
	s.prefs.On("Get", mock.Anything, s.userID).Return(&models.UserPreferences{TwoFactorEnabled: true}, nil)
	s.tokens.On("MintAccessToken", s.userID, "user").Return("access-token", nil)
	s.hasher.On("Hash", mock.AnythingOfType("string")).Return("otp-digest", nil)
	s.users.On("RecordOTPSend", mock.Anything, s.userID, s.now).Return(nil)
	s.sessions.On("PutSession", mock.Anything, mock.Anything).Return(nil)

	result, err := s.svc.Login(context.Background(), s.loginRequest(), "10.0.0.1")

	s.Require().NoError(err)
	s.True(result.TwoFactor)
	s.NotEmpty(result.OTP)
}

func (s *AuthServiceTestSuite) pendingSession() *models.Session {
	return &models.Session{
		UserID:             s.userID,
		RefreshToken:       "refresh-token",
		RefreshTokenExpiry: s.now.Add(24 * time.Hour),
		OTPValue:           "otp-digest",
		OTPVerified:        false,
		OTPExpiry:          s.now.Add(5 * time.Minute),
		SessionStart:       s.now.Add(-time.Minute),
		SessionAddress:     "10.0.0.1",
		SessionStatus:      true,
	}
}

func (s *AuthServiceTestSuite) TestVerifyOTPSuccess() {
	session := s.pendingSession()
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(session, nil)
	s.hasher.On("Verify", "otp-digest", "123456").Return(true, nil)
	s.users.On("RecordOTPSend", mock.Anything, s.userID, s.now).Return(nil)

	var stored *models.Session
	s.sessions.On("PutSession", mock.Anything, mock.AnythingOfType("*models.Session")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Session) }).
		Return(nil)

	err := s.svc.VerifyOTP(context.Background(), s.userID, "123456")

	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.True(stored.OTPVerified)
}

func (s *AuthServiceTestSuite) TestVerifyOTPWithoutSession() {
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(nil, domainErrors.ErrSessionNotFound)

	err := s.svc.VerifyOTP(context.Background(), s.userID, "123456")

	s.Require().ErrorIs(err, domainErrors.ErrSessionNotFound)
}

func (s *AuthServiceTestSuite) TestVerifyOTPReplayRejected() {
	session := s.pendingSession()
	session.OTPVerified = true
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(session, nil)

	err := s.svc.VerifyOTP(context.Background(), s.userID, "123456")

	s.Require().ErrorIs(err, domainErrors.ErrOTPAlreadyUsed)
	s.sessions.AssertNotCalled(s.T(), "PutSession", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestVerifyOTPExpired() {
	session := s.pendingSession()
	session.OTPExpiry = s.now.Add(-time.Minute)
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(session, nil)

	err := s.svc.VerifyOTP(context.Background(), s.userID, "123456")

	s.Require().ErrorIs(err, domainErrors.ErrOTPExpired)
}

func (s *AuthServiceTestSuite) TestVerifyOTPMismatch() {
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(s.pendingSession(), nil)
	s.hasher.On("Verify", "otp-digest", "000000").Return(false, nil)

	err := s.svc.VerifyOTP(context.Background(), s.userID, "000000")

	s.Require().ErrorIs(err, domainErrors.ErrInvalidOTP)
}

func (s *AuthServiceTestSuite) TestResendOTPRearmsSession() {
	s.users.On("FindByID", mock.Anything, s.userID).Return(s.activeUser(), nil)
	session := s.pendingSession()
	session.OTPVerified = true
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(session, nil)
	s.hasher.On("Hash", mock.AnythingOfType("string")).Return("fresh-digest", nil)
	s.users.On("RecordOTPSend", mock.Anything, s.userID, s.now).Return(nil)

	var stored *models.Session
	s.sessions.On("PutSession", mock.Anything, mock.AnythingOfType("*models.Session")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Session) }).
		Return(nil)

	otp, err := s.svc.ResendOTP(context.Background(), s.userID)

	s.Require().NoError(err)
	s.Len(otp, 6)
	s.Require().NotNil(stored)
	s.False(stored.OTPVerified)
	s.Equal("fresh-digest", stored.OTPValue)
}

func (s *AuthServiceTestSuite) TestResendOTPRateLimited() {
	user := s.activeUser()
	user.OTPResendCount = 3
	last := s.now.Add(-5 * time.Minute)
	user.LastOTPResendDate = &last
	s.users.On("FindByID", mock.Anything, s.userID).Return(user, nil)

	_, err := s.svc.ResendOTP(context.Background(), s.userID)

	s.Require().ErrorIs(err, domainErrors.ErrRateLimitExceeded)
}

func (s *AuthServiceTestSuite) TestRefreshTokenHappyPath() {
	session := s.pendingSession()
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(session, nil)
	s.users.On("FindByID", mock.Anything, s.userID).Return(s.activeUser(), nil)
	s.tokens.On("MintAccessToken", s.userID, "user").Return("fresh-access", nil)
	s.sessions.On("PutSession", mock.Anything, session).Return(nil)

	pair, err := s.svc.RefreshToken(context.Background(), s.userID, "refresh-token")

	s.Require().NoError(err)
	s.Equal("fresh-access", pair.Token)
	// Rotation is off by default, so the same refresh token stays valid.
	s.Equal("refresh-token", pair.RefreshToken)
}

func (s *AuthServiceTestSuite) TestRefreshTokenExpiredSession() {
	session := s.pendingSession()
	session.RefreshTokenExpiry = s.now.Add(-time.Minute)
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(session, nil)

	_, err := s.svc.RefreshToken(context.Background(), s.userID, "refresh-token")

	s.Require().ErrorIs(err, domainErrors.ErrSessionExpired)
}

func (s *AuthServiceTestSuite) TestRefreshTokenEndedSession() {
	session := s.pendingSession()
	session.SessionStatus = false
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(session, nil)

	_, err := s.svc.RefreshToken(context.Background(), s.userID, "refresh-token")

	s.Require().ErrorIs(err, domainErrors.ErrSessionExpired)
}

func (s *AuthServiceTestSuite) TestRefreshTokenMismatch() {
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(s.pendingSession(), nil)

	_, err := s.svc.RefreshToken(context.Background(), s.userID, "someone-elses-token")

	s.Require().ErrorIs(err, domainErrors.ErrInvalidSession)
}

func (s *AuthServiceTestSuite) TestRefreshTokenRotationEnabled() {
	s.svc.cfg.Security.RotateRefreshTokens = true

	session := s.pendingSession()
	s.sessions.On("GetSession", mock.Anything, s.userID).Return(session, nil)
	s.users.On("FindByID", mock.Anything, s.userID).Return(s.activeUser(), nil)
	s.tokens.On("MintAccessToken", s.userID, "user").Return("fresh-access", nil)
	s.sessions.On("PutSession", mock.Anything, session).Return(nil)

	pair, err := s.svc.RefreshToken(context.Background(), s.userID, "refresh-token")

	s.Require().NoError(err)
	s.NotEqual("refresh-token", pair.RefreshToken)
	s.Equal(pair.RefreshToken, session.RefreshToken)
}

func (s *AuthServiceTestSuite) TestLogoutDeletesSession() {
	s.sessions.On("DeleteSession", mock.Anything, s.userID).Return(nil)

	err := s.svc.Logout(context.Background(), s.userID)

	s.Require().NoError(err)
	s.sessions.AssertCalled(s.T(), "DeleteSession", mock.Anything, s.userID)
}

func (s *AuthServiceTestSuite) TestResetPasswordRotatesAndReactivates() {
	s.users.On("FindByEmail", mock.Anything, "user@example.com").Return(s.activeUser(), nil)
	s.hasher.On("Hash", "new-password-123").Return("new-digest", nil)
	s.users.On("ReactivateAccount", mock.Anything, s.userID, s.now).Return(nil)
	s.passwords.On("Rotate", mock.Anything, s.userID, "new-digest", s.now.AddDate(0, 0, 90)).Return(nil)

	err := s.svc.ResetPassword(context.Background(), "user@example.com", "new-password-123")

	s.Require().NoError(err)
	s.passwords.AssertExpectations(s.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

// memorySessionStore is a map-backed SessionStore with the same
// replace-on-write semantics as the Redis-backed one, for tests that need
// session state to survive across calls.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]models.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[uuid.UUID]models.Session)}
}

func (m *memorySessionStore) GetSession(_ context.Context, userID uuid.UUID) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if !ok {
		return nil, domainErrors.ErrSessionNotFound
	}
	copied := session
	return &copied, nil
}

func (m *memorySessionStore) PutSession(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID] = *session
	return nil
}

func (m *memorySessionStore) DeleteSession(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

// A second login replaces the stored session, so only the newest refresh
// token stays valid.
func TestLoginSupersedesPreviousSession(t *testing.T) {
	users := new(MockUserStore)
	passwords := new(MockPasswordStore)
	prefs := new(MockPreferencesStore)
	sessions := newMemorySessionStore()
	hasher := new(MockHasher)
	tokens := new(MockTokenMinter)

	cfg := &config.Config{}
	cfg.Security.AccountLockMaxCount = 5
	cfg.JWT.RefreshExpiryMinutes = 10080

	svc := NewAuthService(users, passwords, prefs, sessions, hasher, tokens, nil, cfg, zap.NewNop())

	userID := uuid.New()
	user := &models.User{ID: userID, EmailAddress: "user@example.com", Role: "user", Status: true}
	users.On("FindByEmail", mock.Anything, "user@example.com").Return(user, nil)
	users.On("FindByID", mock.Anything, userID).Return(user, nil)
	users.On("RecordLogin", mock.Anything, userID, mock.Anything).Return(nil)
	passwords.On("FindActive", mock.Anything, userID).Return(&models.Password{
		ID:             uuid.New(),
		UserID:         userID,
		Password:       "digest",
		PasswordExpiry: time.Now().AddDate(0, 0, 30),
		IsActive:       true,
	}, nil)
	hasher.On("Verify", "digest", "correct-password").Return(true, nil)
	prefs.On("Get", mock.Anything, userID).Return(nil, domainErrors.ErrNotFound)
	tokens.On("MintAccessToken", userID, "user").Return("access", nil)

	req := models.LoginRequest{EmailAddress: "user@example.com", Password: "correct-password"}

	first, err := svc.Login(context.Background(), req, "10.0.0.1")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), req, "10.0.0.1")
	require.NoError(t, err)
	require.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	_, err = svc.RefreshToken(context.Background(), userID, first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidSession)

	pair, err := svc.RefreshToken(context.Background(), userID, second.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, second.Tokens.RefreshToken, pair.RefreshToken)
}
