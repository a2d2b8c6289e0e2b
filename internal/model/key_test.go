package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain id unchanged", in: "536365", want: "536365"},
		{name: "leading and trailing whitespace trimmed", in: "  536365 ", want: "536365"},
		{name: "integral float collapsed", in: "536365.0", want: "536365"},
		{name: "integral float with two zeros collapsed", in: "17850.00", want: "17850"},
		{name: "fractional value untouched", in: "17850.5", want: "17850.5"},
		{name: "alphanumeric id untouched", in: "C536379", want: "C536379"},
		{name: "alphanumeric with dot untouched", in: "A1.0X", want: "A1.0X"},
		{name: "dot without integer prefix untouched", in: ".0", want: ".0"},
		{name: "trailing dot untouched", in: "536365.", want: "536365."},
		{name: "whitespace plus float form", in: " 17850.0\t", want: "17850"},
		{name: "empty string", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}
