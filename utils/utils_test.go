package utils

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount   string
		expected string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1.000"},
		{"60000", "60.000"},
		{"1000000", "1.000.000"},
		{"1234567.89", "1.234.568"},
		{"-1000000", "-1.000.000"},
	}

	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, FormatAmount(amount), "amount %s", tc.amount)
	}
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 150.000", FormatRupiah(decimal.NewFromInt(150000)))
}

func TestGenerateAccessKey(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		key, err := GenerateAccessKey()
		require.NoError(t, err)
		assert.Len(t, key, AccessKeyLength)

		for _, ch := range key {
			assert.True(t, strings.ContainsRune(accessKeyAlphabet, ch), "unexpected character %q", ch)
		}

		assert.False(t, seen[key], "duplicate key generated")
		seen[key] = true
	}
}

func TestGenerateCertificateNumber(t *testing.T) {
	number, err := GenerateCertificateNumber()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(number, "CERT-"))
	assert.Len(t, number, len("CERT-")+16)
	assert.Equal(t, strings.ToUpper(number), number)
}
