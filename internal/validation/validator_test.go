package validation

import (
	stderrors "errors"
	"testing"

	"ega-bank-client/internal/dto"
	apperrors "ega-bank-client/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
	validator *Validator
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}

func (s *ValidatorTestSuite) SetupTest() {
	s.validator = NewValidator()
}

func (s *ValidatorTestSuite) TestPositiveAmount() {
	testCases := []struct {
		name   string
		amount string
		valid  bool
	}{
		{name: "whole amount", amount: "100", valid: true},
		{name: "fractional amount", amount: "0.01", valid: true},
		{name: "zero", amount: "0", valid: false},
		{name: "negative", amount: "-5.50", valid: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := dto.AmountRequest{Amount: dto.NewMoney(decimal.RequireFromString(tc.amount))}
			err := s.validator.Struct(req)
			if tc.valid {
				s.NoError(err)
				return
			}

			s.Require().Error(err)
			s.True(stderrors.Is(err, apperrors.ErrValidation))

			var appErr *apperrors.Error
			s.Require().True(stderrors.As(err, &appErr))
			s.Equal(apperrors.ValidationNonPositive, appErr.Code)
			s.Equal("must be greater than zero", appErr.Fields["amount"])
		})
	}
}

func (s *ValidatorTestSuite) TestZeroValueAmountIsRejected() {
	err := s.validator.Struct(dto.AmountRequest{})
	s.Error(err)
}

func (s *ValidatorTestSuite) TestTransferRequest() {
	s.Run("valid transfer", func() {
		err := s.validator.Struct(dto.TransferRequest{
			FromAccount: "ACC1",
			ToAccount:   "ACC2",
			Amount:      dto.NewMoney(decimal.NewFromInt(10)),
		})
		s.NoError(err)
	})

	s.Run("missing destination", func() {
		err := s.validator.Struct(dto.TransferRequest{
			FromAccount: "ACC1",
			Amount:      dto.NewMoney(decimal.NewFromInt(10)),
		})
		s.Require().Error(err)

		var appErr *apperrors.Error
		s.Require().True(stderrors.As(err, &appErr))
		s.Equal(apperrors.ValidationRequiredField, appErr.Code)
		s.Equal("is required", appErr.Fields["toAccount"])
	})

	s.Run("several failures use the general code", func() {
		err := s.validator.Struct(dto.TransferRequest{FromAccount: "ACC1"})
		s.Require().Error(err)

		var appErr *apperrors.Error
		s.Require().True(stderrors.As(err, &appErr))
		s.Equal(apperrors.ValidationGeneral, appErr.Code)
		s.Len(appErr.Fields, 2)
		s.Equal([]string{"amount: must be greater than zero", "toAccount: is required"}, appErr.Details())
	})
}

func (s *ValidatorTestSuite) TestAccountType() {
	s.NoError(s.validator.Struct(dto.CreateAccountRequest{ClientID: 1, Type: "savings"}))

	err := s.validator.Struct(dto.CreateAccountRequest{ClientID: 1, Type: "BROKERAGE"})
	s.Require().Error(err)

	var appErr *apperrors.Error
	s.Require().True(stderrors.As(err, &appErr))
	s.Equal(apperrors.ValidationInvalidType, appErr.Code)
	s.Equal("must be CHECKING or SAVINGS", appErr.Fields["type"])
}

func (s *ValidatorTestSuite) TestRegisterRequestLength() {
	err := s.validator.Struct(dto.RegisterRequest{Username: "ab", Password: "secret"})
	s.Require().Error(err)

	var appErr *apperrors.Error
	s.Require().True(stderrors.As(err, &appErr))
	s.Equal("must be at least 3 characters", appErr.Fields["username"])
}

func (s *ValidatorTestSuite) TestGetValidatorReturnsSharedInstance() {
	s.Same(GetValidator(), GetValidator())
	s.NotNil(GetValidator().GetValidate())
}
