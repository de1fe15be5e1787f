package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() RegisterInput {
	return RegisterInput{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Password:    "secret1",
		PhoneNumber: "+1 (555) 010-0100",
	}
}

func TestValidateRegistrationAccepts(t *testing.T) {
	assert.NoError(t, ValidateRegistration(validInput()))
}

func TestValidateRegistrationRejects(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*RegisterInput)
		wantField string
	}{
		{"missing name", func(i *RegisterInput) { i.Name = "" }, "name"},
		{"short name", func(i *RegisterInput) { i.Name = "A" }, "name"},
		{"missing email", func(i *RegisterInput) { i.Email = "" }, "email"},
		{"malformed email", func(i *RegisterInput) { i.Email = "not-an-email" }, "email"},
		{"missing password", func(i *RegisterInput) { i.Password = "" }, "password"},
		{"short password", func(i *RegisterInput) { i.Password = "abc12" }, "password"},
		{"missing phone", func(i *RegisterInput) { i.PhoneNumber = "" }, "phone_number"},
		{"letters in phone", func(i *RegisterInput) { i.PhoneNumber = "call me" }, "phone_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			err := ValidateRegistration(input)
			var vErr ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}
