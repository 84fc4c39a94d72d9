package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Validation(t *testing.T) {
	service := NewUserService(nil, nil, "invite-token")

	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{
			name:  "missing name",
			input: RegisterInput{Email: "a@example.com", Password: "longenough"},
			field: "name",
		},
		{
			name:  "missing email",
			input: RegisterInput{Name: "Alice", Password: "longenough"},
			field: "email",
		},
		{
			name:  "short password",
			input: RegisterInput{Name: "Alice", Email: "a@example.com", Password: "short"},
			field: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Register(context.Background(), tt.input)
			require.Error(t, err)

			var validationError *ValidationError
			require.ErrorAs(t, err, &validationError)
			assert.Equal(t, tt.field, validationError.Field)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := validationErr("title", "task title is required")
	assert.Equal(t, "invalid title: task title is required", err.Error())
}
