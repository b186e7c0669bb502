package validation

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "nexuscomply/pkg/domain-errors"
)

type ValidationSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationSuite))
}

type resetForm struct {
	Email           string `validate:"required,contains=@"`
	NewPassword     string `validate:"min=6"`
	ConfirmPassword string `validate:"eqfield=NewPassword"`
}

func (s *ValidationSuite) TestValidate() {
	s.Run("accepts a well formed request", func() {
		err := Validate(&resetForm{Email: "a@b.com", NewPassword: "abcdef", ConfirmPassword: "abcdef"})
		s.NoError(err)
	})

	s.Run("rejects email without at sign", func() {
		err := Validate(&resetForm{Email: "ab.com", NewPassword: "abcdef", ConfirmPassword: "abcdef"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(`email must contain "@"`, err.Error())
	})

	s.Run("rejects short password", func() {
		err := Validate(&resetForm{Email: "a@b.com", NewPassword: "ab", ConfirmPassword: "ab"})
		s.Require().Error(err)
		s.Equal("newPassword must be at least 6 characters", err.Error())
	})

	s.Run("rejects mismatched confirmation", func() {
		err := Validate(&resetForm{Email: "a@b.com", NewPassword: "abcdef", ConfirmPassword: "abcdeg"})
		s.Require().Error(err)
		s.Equal("confirmPassword must match newPassword", err.Error())
	})
}

type licenseForm struct {
	LicenseKey string `json:"licenseKey" validate:"notblank"`
	MaxUsage   int    `json:"max_seats" validate:"gt=0"`
	ValidFrom  int    `json:"validFrom"`
	ValidTo    int    `json:"validTo,omitempty" validate:"gtefield=ValidFrom"`
}

func (s *ValidationSuite) TestMessagesUseWireNames() {
	s.Run("json tag names the field", func() {
		err := Validate(licenseForm{LicenseKey: "K", MaxUsage: 0, ValidFrom: 1, ValidTo: 2})
		s.Require().Error(err)
		s.Equal("max_seats must be greater than 0", err.Error())
	})

	s.Run("cross-field parameter uses the sibling's json name", func() {
		err := Validate(&licenseForm{LicenseKey: "K", MaxUsage: 1, ValidFrom: 5, ValidTo: 2})
		s.Require().Error(err)
		s.Equal("validTo must not be before validFrom", err.Error())
	})

	s.Run("blank value", func() {
		err := Validate(&licenseForm{LicenseKey: "  ", MaxUsage: 1})
		s.Require().Error(err)
		s.Equal("licenseKey must not be blank", err.Error())
	})
}

func (s *ValidationSuite) TestLowerCamel() {
	s.Equal("newPassword", lowerCamel("NewPassword"))
	s.Equal("licenseKey", lowerCamel("LicenseKey"))
	s.Equal("id", lowerCamel("ID"))
	s.Equal("urlPath", lowerCamel("URLPath"))
	s.Equal("email", lowerCamel("email"))
}
