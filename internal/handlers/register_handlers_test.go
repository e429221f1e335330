package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mobilebank/ledger_backend/internal/core/services"
	"github.com/mobilebank/ledger_backend/internal/dto"
	"github.com/mobilebank/ledger_backend/internal/platform/config"
	"github.com/mobilebank/ledger_backend/internal/repositories/database/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// HandlersTestSuite exercises the full HTTP surface against the in-memory
// backend: real router, real middleware, real services.
type HandlersTestSuite struct {
	suite.Suite
	router *gin.Engine
	cfg    *config.Config
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(dto.RegisterCustomValidations())

	s.cfg = &config.Config{
		Port:              "8080",
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "ledger-backend-test",
		InitialGrantUnits: 100_000,
	}

	repos := memory.NewRepositoryProvider()
	container := services.NewServiceContainer(s.cfg, repos)

	s.router = gin.New()
	RegisterRoutes(s.router, s.cfg, container)
}

func (s *HandlersTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) register(username string) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Username: username,
		Password: "s3cret-pass",
		Email:    username + "@example.com",
		Mobile:   "+15550001111",
	})
}

func (s *HandlersTestSuite) login(username, password string) string {
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Username: username, Password: password,
	})
	s.Require().Equal(http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var res dto.LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Require().NotEmpty(res.Token)
	return res.Token
}

func (s *HandlersTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlersTestSuite) TestRegister_Success() {
	w := s.register("alice")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var res dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal("alice", res.Username)
	s.Equal(int64(100_000), res.Balance)
	s.NotEmpty(res.AccountID)

	s.NotContains(w.Body.String(), "password", "credential material must never appear in responses")
}

func (s *HandlersTestSuite) TestRegister_DuplicateUsername() {
	s.Require().Equal(http.StatusCreated, s.register("alice").Code)
	s.Equal(http.StatusConflict, s.register("alice").Code)
}

func (s *HandlersTestSuite) TestRegister_InvalidPayload() {
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "al", // too short
		"password": "s3cret-pass",
		"email":    "not-an-email",
		"mobile":   "abc",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestLogin_WrongPassword() {
	s.Require().Equal(http.StatusCreated, s.register("alice").Code)

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Username: "alice", Password: "wrong-pass-123",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestProtectedRoutes_RequireToken() {
	s.Require().Equal(http.StatusCreated, s.register("alice").Code)

	w := s.do(http.MethodGet, "/api/v1/accounts/alice/balance", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/accounts/alice/balance", "not.a.jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestLedgerFlow() {
	s.Require().Equal(http.StatusCreated, s.register("alice").Code)
	s.Require().Equal(http.StatusCreated, s.register("bob").Code)
	token := s.login("alice", "s3cret-pass")

	// Deposit 500 on top of the 100_000 grant.
	w := s.do(http.MethodPost, "/api/v1/ledger/deposit", token, dto.DepositRequest{
		Username: "alice", Amount: 500,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var entry dto.EntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entry))
	s.Equal(int64(1), entry.Sequence)
	s.Equal("BANK", entry.SenderRef)

	// Withdraw 200.
	w = s.do(http.MethodPost, "/api/v1/ledger/withdraw", token, dto.WithdrawRequest{
		Username: "alice", Amount: 200,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// Transfer 300 to bob.
	w = s.do(http.MethodPost, "/api/v1/ledger/transfer", token, dto.TransferRequest{
		Sender: "alice", Receiver: "bob", Amount: 300,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	s.assertBalance(token, "alice", 100_000+500-200-300)
	s.assertBalance(token, "bob", 100_000+300)

	// Full history, newest first.
	w = s.do(http.MethodGet, "/api/v1/accounts/alice/history", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var history dto.ListEntriesResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &history))
	s.Require().Len(history.Entries, 3)
	s.Equal("transfer", string(history.Entries[0].Kind))
	s.Equal("withdraw", string(history.Entries[1].Kind))
	s.Equal("deposit", string(history.Entries[2].Kind))

	// Kind filter.
	w = s.do(http.MethodGet, "/api/v1/accounts/alice/history?kind=deposit", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	history = dto.ListEntriesResponse{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &history))
	s.Require().Len(history.Entries, 1)
	s.Equal(int64(500), history.Entries[0].Amount)
}

func (s *HandlersTestSuite) TestLedger_ErrorStatuses() {
	s.Require().Equal(http.StatusCreated, s.register("alice").Code)
	s.Require().Equal(http.StatusCreated, s.register("bob").Code)
	token := s.login("alice", "s3cret-pass")

	// Unknown account.
	w := s.do(http.MethodPost, "/api/v1/ledger/deposit", token, dto.DepositRequest{
		Username: "ghost", Amount: 100,
	})
	s.Equal(http.StatusNotFound, w.Code)

	// Non-positive amount is rejected at binding time.
	w = s.do(http.MethodPost, "/api/v1/ledger/deposit", token, gin.H{
		"username": "alice", "amount": -5,
	})
	s.Equal(http.StatusBadRequest, w.Code)

	// Self-transfer.
	w = s.do(http.MethodPost, "/api/v1/ledger/transfer", token, dto.TransferRequest{
		Sender: "alice", Receiver: "alice", Amount: 100,
	})
	s.Equal(http.StatusBadRequest, w.Code)

	// Insufficient funds.
	w = s.do(http.MethodPost, "/api/v1/ledger/transfer", token, dto.TransferRequest{
		Sender: "alice", Receiver: "bob", Amount: 100_001,
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	// Bad history filter.
	w = s.do(http.MethodGet, "/api/v1/accounts/alice/history?kind=refund", token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestAdmin_Listings() {
	s.Require().Equal(http.StatusCreated, s.register("alice").Code)
	s.Require().Equal(http.StatusCreated, s.register("bob").Code)
	token := s.login("alice", "s3cret-pass")

	w := s.do(http.MethodPost, "/api/v1/ledger/transfer", token, dto.TransferRequest{
		Sender: "alice", Receiver: "bob", Amount: 250,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/admin/accounts", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var accounts dto.ListAccountsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &accounts))
	s.Len(accounts.Accounts, 2)
	s.NotContains(w.Body.String(), "password")

	w = s.do(http.MethodGet, "/api/v1/admin/entries", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var entries dto.ListEntriesResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entries))
	s.Require().Len(entries.Entries, 1)
	s.Equal(int64(250), entries.Entries[0].Amount)

	// Pagination trims the account listing.
	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/admin/accounts?limit=%d&offset=%d", 1, 1), token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	accounts = dto.ListAccountsResponse{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &accounts))
	s.Len(accounts.Accounts, 1)
}

func (s *HandlersTestSuite) assertBalance(token, username string, want int64) {
	s.T().Helper()
	w := s.do(http.MethodGet, "/api/v1/accounts/"+username+"/balance", token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var res dto.BalanceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Equal(want, res.Balance)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
