package handlers_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/SscSPs/bank_app/internal/core/services"
	"github.com/SscSPs/bank_app/internal/dto"
	"github.com/SscSPs/bank_app/internal/handlers"
	"github.com/SscSPs/bank_app/internal/middleware"
	"github.com/SscSPs/bank_app/internal/platform/config"
	"github.com/SscSPs/bank_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock services ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) Register(ctx context.Context, req dto.RegisterAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, username string, req dto.UpdateProfileRequest) (*domain.Account, error) {
	args := m.Called(ctx, username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ChangePassword(ctx context.Context, username string, req dto.ChangePasswordRequest) error {
	args := m.Called(ctx, username, req)
	return args.Error(0)
}

func (m *MockAccountService) Authenticate(ctx context.Context, username, secret string) (bool, error) {
	args := m.Called(ctx, username, secret)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Deposit(ctx context.Context, username string, amount decimal.Decimal) (*domain.OperationResult, error) {
	args := m.Called(ctx, username, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationResult), args.Error(1)
}

func (m *MockEngine) Withdraw(ctx context.Context, username string, amount decimal.Decimal) (*domain.OperationResult, error) {
	args := m.Called(ctx, username, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationResult), args.Error(1)
}

func (m *MockEngine) Transfer(ctx context.Context, from, to string, amount decimal.Decimal, description string) (*domain.OperationResult, error) {
	args := m.Called(ctx, from, to, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationResult), args.Error(1)
}

var _ portssvc.TransactionEngineSvc = (*MockEngine)(nil)

type MockProjector struct {
	mock.Mock
}

func (m *MockProjector) AccountSummary(ctx context.Context, username string) (*domain.AccountSummary, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountSummary), args.Error(1)
}

func (m *MockProjector) LedgerFor(ctx context.Context, username string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockProjector) LedgerPage(ctx context.Context, username string, limit int, nextToken *string) (*domain.LedgerPage, error) {
	args := m.Called(ctx, username, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerPage), args.Error(1)
}

func (m *MockProjector) AggregateCounts(ctx context.Context, username string) (domain.AggregateCounts, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.AggregateCounts), args.Error(1)
}

var _ portssvc.ViewProjectorSvc = (*MockProjector)(nil)

type MockHealth struct {
	mock.Mock
}

func (m *MockHealth) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Suite ---

type HandlerTestSuite struct {
	suite.Suite
	cfg       *config.Config
	router    *gin.Engine
	accounts  *MockAccountService
	engine    *MockEngine
	projector *MockProjector
	health    *MockHealth
	notifier  portssvc.ChangeNotifierSvc
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTIssuer:         "bank-test",
		JWTExpiryDuration: time.Hour,
		AuthRateLimit:     "1000-M",
		IsProduction:      true,
	}
	s.accounts = new(MockAccountService)
	s.engine = new(MockEngine)
	s.projector = new(MockProjector)
	s.health = new(MockHealth)
	s.notifier = services.NewChangeNotifier()

	container := &portssvc.ServiceContainer{
		Account:      s.accounts,
		Engine:       s.engine,
		Projector:    s.projector,
		TokenService: services.NewTokenService(s.cfg),
		Notifier:     s.notifier,
		Health:       s.health,
	}

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.DiscardHandler)))
	s.Require().NoError(handlers.RegisterRoutes(s.router, s.cfg, container))
}

func (s *HandlerTestSuite) token(username string) string {
	tok, _, err := utils.GenerateJWT(username, s.cfg.JWTSecret, time.Hour, s.cfg.JWTIssuer)
	s.Require().NoError(err)
	return tok
}

func (s *HandlerTestSuite) do(method, path, body, username string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(username))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body handlers.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func sampleAccount() *domain.Account {
	return &domain.Account{
		AccountID:        "acc-1",
		Username:         "alice",
		AccountNumber:    "1234567890",
		FullName:         "Alice Liddell",
		Email:            "alice@example.com",
		CredentialSecret: "$2a$hash",
		Balance:          decimal.RequireFromString("100.00"),
	}
}

func (s *HandlerTestSuite) TestHealth() {
	s.health.On("Ping", mock.Anything).Return(nil).Once()
	w := s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())

	s.health.On("Ping", mock.Anything).Return(apperrors.ErrStoreUnavailable).Once()
	w = s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *HandlerTestSuite) TestRegister() {
	s.accounts.On("Register", mock.Anything, mock.MatchedBy(func(r dto.RegisterAccountRequest) bool {
		return r.Username == "alice"
	})).Return(sampleAccount(), nil).Once()

	w := s.do(http.MethodPost, "/auth/register",
		`{"username":"alice","password":"secret1","fullName":"Alice Liddell","email":"alice@example.com"}`, "")
	s.Equal(http.StatusCreated, w.Code)
	s.NotContains(w.Body.String(), "$2a$hash")

	var resp dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("1234567890", resp.AccountNumber)
	s.Equal("100.00", resp.Balance)
	s.accounts.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestRegister_Duplicate() {
	s.accounts.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateUsername).Once()

	w := s.do(http.MethodPost, "/auth/register",
		`{"username":"alice","password":"secret1","fullName":"Alice","email":"alice@example.com"}`, "")
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestRegister_BindingValidation() {
	w := s.do(http.MethodPost, "/auth/register",
		`{"username":"a!","password":"123","fullName":"","email":"nope"}`, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.errorBody(w), "Username")
	s.accounts.AssertNotCalled(s.T(), "Register", mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestLogin_IssuesUsableToken() {
	s.accounts.On("Authenticate", mock.Anything, "alice", "secret1").Return(true, nil).Once()
	s.accounts.On("GetAccount", mock.Anything, "alice").Return(sampleAccount(), nil)

	w := s.do(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret1"}`, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("Bearer", resp.TokenType)
	s.True(resp.ExpiresAt.After(time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	me := httptest.NewRecorder()
	s.router.ServeHTTP(me, req)
	s.Equal(http.StatusOK, me.Code)
}

func (s *HandlerTestSuite) TestLogin_WrongPassword() {
	s.accounts.On("Authenticate", mock.Anything, "alice", "nope").Return(false, nil).Once()

	w := s.do(http.MethodPost, "/auth/login", `{"username":"alice","password":"nope"}`, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.accounts.AssertNotCalled(s.T(), "GetAccount", mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestProtectedRoutesRejectBadTokens() {
	w := s.do(http.MethodGet, "/api/v1/me", "", "")
	s.Equal(http.StatusUnauthorized, w.Code)

	tests := []struct {
		name   string
		header string
	}{
		{"garbage", "Bearer not-a-jwt"},
		{"wrong scheme", "Token abc"},
		{"wrong secret", "Bearer " + mustJWT(s.T(), "alice", "other-secret", time.Hour, s.cfg.JWTIssuer)},
		{"wrong issuer", "Bearer " + mustJWT(s.T(), "alice", s.cfg.JWTSecret, time.Hour, "someone-else")},
		{"expired", "Bearer " + mustJWT(s.T(), "alice", s.cfg.JWTSecret, -time.Minute, s.cfg.JWTIssuer)},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/me/deposit", strings.NewReader(`{"amount":"1"}`))
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			s.Equal(http.StatusUnauthorized, w.Code)
		})
	}
	s.engine.AssertNotCalled(s.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestDeposit() {
	result := &domain.OperationResult{
		Transaction: domain.Transaction{
			TransactionID: "tx-1",
			Type:          domain.Deposit,
			Amount:        decimal.RequireFromString("25.50"),
			ToAccount:     "1234567890",
			UserID:        "alice",
		},
		Balance: decimal.RequireFromString("125.50"),
	}
	s.engine.On("Deposit", mock.Anything, "alice", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("25.50"))
	})).Return(result, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/me/deposit", `{"amount":"25.50"}`, "alice")
	s.Require().Equal(http.StatusCreated, w.Code)

	var resp dto.OperationResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("tx-1", resp.Transaction.TransactionID)
	s.Equal("125.50", resp.Balance)
	s.Equal("25.50", resp.Transaction.Amount)
	s.Nil(resp.RecipientBalance)
}

func (s *HandlerTestSuite) TestErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid amount", apperrors.ErrInvalidAmount, http.StatusBadRequest},
		{"self transfer", apperrors.ErrSelfTransfer, http.StatusBadRequest},
		{"insufficient funds", apperrors.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"unknown account", apperrors.ErrUnknownAccount, http.StatusNotFound},
		{"store unavailable", apperrors.ErrConcurrentUpdate, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.engine.On("Transfer", mock.Anything, "alice", "bob", mock.Anything, "lunch").Return(nil, tt.err).Once()

			w := s.do(http.MethodPost, "/api/v1/me/transfer", `{"recipient":"bob","amount":"5","description":"lunch"}`, "alice")
			s.Equal(tt.status, w.Code)
			if tt.status >= http.StatusInternalServerError {
				s.NotContains(s.errorBody(w), "boom")
			}
		})
	}
}

func (s *HandlerTestSuite) TestWithdraw_InsufficientFunds() {
	s.engine.On("Withdraw", mock.Anything, "alice", mock.Anything).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	w := s.do(http.MethodPost, "/api/v1/me/withdraw", `{"amount":"1000"}`, "alice")
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestUpdateProfile_ImmutableField() {
	s.accounts.On("UpdateProfile", mock.Anything, "alice", mock.Anything).Return(nil, apperrors.ErrImmutableField).Once()

	w := s.do(http.MethodPut, "/api/v1/me", `{"username":"mallory"}`, "alice")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestChangePassword() {
	s.accounts.On("ChangePassword", mock.Anything, "alice", mock.Anything).Return(nil).Once()
	w := s.do(http.MethodPut, "/api/v1/me/password",
		`{"currentPassword":"secret1","newPassword":"secret2","confirmPassword":"secret2"}`, "alice")
	s.Equal(http.StatusNoContent, w.Code)

	s.accounts.On("ChangePassword", mock.Anything, "alice", mock.Anything).Return(apperrors.ErrInvalidCredentials).Once()
	w = s.do(http.MethodPut, "/api/v1/me/password",
		`{"currentPassword":"wrong","newPassword":"secret2","confirmPassword":"secret2"}`, "alice")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestLedgerPage() {
	next := "dG9rZW4="
	page := &domain.LedgerPage{
		Entries: []domain.LedgerEntry{{
			Transaction: domain.Transaction{
				TransactionID: "tx-2",
				Type:          domain.Transfer,
				Amount:        decimal.NewFromInt(30),
				FromAccount:   "1234567890",
				ToAccount:     "9999999999",
				UserID:        "alice",
			},
			Direction:    domain.DirectionDebit,
			SignedAmount: decimal.NewFromInt(-30),
			Counterparty: "9999999999",
		}},
		NextToken: &next,
	}
	s.projector.On("LedgerPage", mock.Anything, "alice", 1, (*string)(nil)).Return(page, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/me/ledger?limit=1", "", "alice")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.LedgerPageResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Entries, 1)
	s.Equal("debit", resp.Entries[0].Direction)
	s.Equal("-30.00", resp.Entries[0].SignedAmount)
	s.Equal("30.00", resp.Entries[0].Amount)
	s.Require().NotNil(resp.NextToken)
	s.Equal(next, *resp.NextToken)

	w = s.do(http.MethodGet, "/api/v1/me/ledger?limit=500", "", "alice")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestCounts() {
	s.projector.On("AggregateCounts", mock.Anything, "alice").
		Return(domain.AggregateCounts{Deposits: 2, Withdrawals: 1, Transfers: 1}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/me/ledger/counts", "", "alice")
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"deposits":2,"withdrawals":1,"transfers":1}`, w.Body.String())
}

func (s *HandlerTestSuite) TestSummaryStream() {
	acc := sampleAccount()
	s.projector.On("AccountSummary", mock.Anything, "alice").Return(&domain.AccountSummary{
		Account: *acc,
		Balance: acc.Balance,
	}, nil)

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/me/ledger/stream", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.token("alice"))

	resp, err := srv.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	s.Equal("event:summary\n", readLine(s.T(), reader))
	s.Contains(readLine(s.T(), reader), `"accountNumber":"1234567890"`)

	// A change to alice's ledger pushes a fresh summary.
	s.notifier.Publish(domain.LedgerChanged{Usernames: []string{"alice"}, TransactionID: "tx-9"})
	for {
		line := readLine(s.T(), reader)
		if line == "event:summary\n" {
			break
		}
	}
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func mustJWT(t *testing.T, username, secret string, ttl time.Duration, issuer string) string {
	t.Helper()
	tok, _, err := utils.GenerateJWT(username, secret, ttl, issuer)
	require.NoError(t, err)
	return tok
}
