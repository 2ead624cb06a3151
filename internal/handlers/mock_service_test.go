package handlers

import (
	"context"
	"net/http"

	"home_bills/internal/models"
	"home_bills/internal/service"

	"github.com/gin-gonic/gin"
)

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockDialog struct {
	reply    string
	err      error
	lastTurn models.Turn
}

func (m *mockDialog) HandleTurn(ctx context.Context, t models.Turn) (string, error) {
	m.lastTurn = t
	return m.reply, m.err
}

type mockReadings struct {
	snap      models.PeriodReadings
	snapErr   error
	recordErr error
	reloadErr error

	lastPeriod models.Period
	lastField  models.Field
	lastValue  float64
	reloads    int
}

func (m *mockReadings) Snapshot(ctx context.Context, p models.Period) (models.PeriodReadings, error) {
	m.lastPeriod = p
	return m.snap, m.snapErr
}

func (m *mockReadings) Record(ctx context.Context, f models.Field, v float64) error {
	m.lastField, m.lastValue = f, v
	return m.recordErr
}

func (m *mockReadings) Reload(ctx context.Context) error {
	m.reloads++
	return m.reloadErr
}

type mockBilling struct {
	bill  models.Bill
	err   error
	rates models.Rates
}

func (m *mockBilling) Calculate(ctx context.Context) (models.Bill, error) { return m.bill, m.err }
func (m *mockBilling) Rates() models.Rates                                { return m.rates }

type mockJournal struct {
	resp       []models.JournalEvent
	err        error
	lastFilter service.LogFilter
	calls      int
}

func (m *mockJournal) List(ctx context.Context, f service.LogFilter) ([]models.JournalEvent, error) {
	m.calls++
	m.lastFilter = f
	return m.resp, m.err
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil, nil).InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request) *http.Request {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
