package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_SetPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid password", "password123", nil},
		{"exactly 8 characters", "12345678", nil},
		{"too short", "short", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Admin{}
			err := a.SetPassword(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, a.PasswordHash)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, a.PasswordHash)
			assert.True(t, a.CheckPassword(tt.password))
			assert.False(t, a.CheckPassword(tt.password+"x"))
		})
	}
}

func TestAdmin_Validate(t *testing.T) {
	tests := []struct {
		name    string
		admin   Admin
		wantErr error
	}{
		{"valid", Admin{Email: "editor@wise.edu", Name: "Editor"}, nil},
		{"missing email", Admin{Name: "Editor"}, ErrInvalidEmail},
		{"blank email", Admin{Email: "  ", Name: "Editor"}, ErrInvalidEmail},
		{"missing name", Admin{Email: "editor@wise.edu"}, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.admin.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
