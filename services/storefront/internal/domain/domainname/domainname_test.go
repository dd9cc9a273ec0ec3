package domainname

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"full url", "https://WWW.Example.com/path?x=1", "example.com", nil},
		{"port stripped", "http://shop.example.co.uk:8443/", "shop.example.co.uk", nil},
		{"surrounding space", "  bitss.one ", "bitss.one", nil},
		{"hyphen inside label", "my-shop.example.com", "my-shop.example.com", nil},
		{"too short", "a.b", "", ErrInvalid},
		{"consecutive hyphens", "exa--mple.com", "", ErrInvalid},
		{"leading hyphen", "-example.com", "", ErrInvalid},
		{"trailing hyphen", "example.com-", "", ErrInvalid},
		{"label ends with hyphen", "example-.com", "", ErrInvalid},
		{"no dot", "example", "", ErrInvalid},
		{"single letter tld", "example.c", "", ErrInvalid},
		{"double dot", "example..com", "", ErrInvalid},
		{"leading dot", ".example.com", "", ErrInvalid},
		{"underscore", "my_shop.com", "", ErrInvalid},
		{"too long", strings.Repeat("a", 250) + ".com", "", ErrInvalid},
		{"empty", "   ", "", ErrEmpty},
		{"only scheme", "https://", "", ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_Idempotent(t *testing.T) {
	inputs := []string{
		"https://WWW.Example.com/path?x=1",
		"HTTP://sub.domain.example.org:80",
		"bitss.one",
		"www.www.example.com",
	}

	for _, in := range inputs {
		first, err := Validate(in)
		require.NoError(t, err, in)
		second, err := Validate(first)
		require.NoError(t, err, in)
		assert.Equal(t, first, second)
		assert.Equal(t, first, Normalize(first))
	}
}

func TestRegisterValidation(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidation(v))

	type request struct {
		Domain string `validate:"required,domainname"`
	}

	assert.NoError(t, v.Struct(request{Domain: "https://www.example.com"}))
	assert.Error(t, v.Struct(request{Domain: "example"}))
}
