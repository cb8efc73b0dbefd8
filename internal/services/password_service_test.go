package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// PasswordServiceTestSuite defines the test suite for PasswordService
type PasswordServiceTestSuite struct {
	suite.Suite
	service PasswordServiceInterface
}

func (s *PasswordServiceTestSuite) SetupTest() {
	s.service = NewPasswordService(bcrypt.MinCost)
}

func TestPasswordServiceSuite(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (s *PasswordServiceTestSuite) TestHashAndCompare() {
	hash, err := s.service.HashPassword("secret")
	s.Require().NoError(err)
	s.NotEqual("secret", hash)

	s.True(s.service.ComparePassword("secret", hash))
	s.False(s.service.ComparePassword("Secret", hash))
}

func (s *PasswordServiceTestSuite) TestHashIsSalted() {
	first, err := s.service.HashPassword("secret")
	s.Require().NoError(err)
	second, err := s.service.HashPassword("secret")
	s.Require().NoError(err)

	s.NotEqual(first, second)
}

func (s *PasswordServiceTestSuite) TestHashPassword_Empty() {
	_, err := s.service.HashPassword("")
	s.ErrorIs(err, ErrPasswordEmpty)
}

func (s *PasswordServiceTestSuite) TestHashPassword_TooLong() {
	_, err := s.service.HashPassword(strings.Repeat("a", MaxPasswordLength+1))
	s.ErrorIs(err, ErrPasswordTooLong)
}

func (s *PasswordServiceTestSuite) TestComparePassword_MalformedHash() {
	s.False(s.service.ComparePassword("secret", "not-a-hash"))
}

func (s *PasswordServiceTestSuite) TestOutOfRangeCostFallsBack() {
	service := NewPasswordService(99).(*PasswordService)
	s.Equal(bcrypt.DefaultCost, service.cost)
}
