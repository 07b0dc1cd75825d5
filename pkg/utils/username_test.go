package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	for _, name := range []string{"abc", "user_42", "4season", "twenty_characters_xx"} {
		assert.NoError(t, ValidateUsername(name), "username %q", name)
	}

	cases := []struct {
		name     string
		username string
	}{
		{"too short", "ab"},
		{"too long", "this_username_is_far_too_long"},
		{"invalid characters", "user-name"},
		{"spaces inside", "user name"},
		{"leading underscore", "_user"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.username)
			assert.Error(t, err)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Equal(t, "username", verr.Field)
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "dailywriter", NormalizeUsername("  DailyWriter "))
	assert.Equal(t, "user_42", NormalizeUsername("USER_42"))
}
