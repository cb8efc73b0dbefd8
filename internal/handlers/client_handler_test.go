package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ega-bank-client/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type ClientHandlerSuite struct {
	suite.Suite
	ledger  *Ledger
	handler *ClientHandler
	e       *echo.Echo
}

func TestClientHandlerSuite(t *testing.T) {
	suite.Run(t, new(ClientHandlerSuite))
}

func (s *ClientHandlerSuite) SetupTest() {
	s.ledger = NewLedger()
	s.handler = NewClientHandler(s.ledger, testLogger())
	s.e = echo.New()
	s.e.Validator = NewValidator()
}

func (s *ClientHandlerSuite) TestCreateAndList() {
	req := httptest.NewRequest(http.MethodPost, "/api/clients",
		strings.NewReader(`{"firstName":"Ama","lastName":"Mensah","email":"ama@example.com","nationality":"GH"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Require().NoError(s.handler.CreateClient(s.e.NewContext(req, rec)))
	s.Equal(http.StatusOK, rec.Code)

	var created ClientView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Equal("Ama", created.FirstName)
	s.NotZero(created.ID)

	_, err := s.ledger.CreateAccount(created.ID, models.AccountTypeChecking)
	s.Require().NoError(err)

	req = httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rec = httptest.NewRecorder()
	s.Require().NoError(s.handler.ListClients(s.e.NewContext(req, rec)))
	s.Equal(http.StatusOK, rec.Code)

	var clients []models.Client
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &clients))
	s.Require().Len(clients, 1)
	s.Equal("Mensah", clients[0].LastName)
	s.Len(clients[0].Accounts, 1)
}

func (s *ClientHandlerSuite) TestCreate_Validation() {
	req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(`{"firstName":"Ama","email":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Require().NoError(s.handler.CreateClient(s.e.NewContext(req, rec)))

	s.Equal(http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(MsgValidationFailed, body.Error)
	s.Contains(body.Fields, "lastName")
	s.Equal("must be a valid email address", body.Fields["email"])
}
