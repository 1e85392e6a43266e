package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const accessKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// AccessKeyLength is the fixed length of enrollment access keys.
const AccessKeyLength = 16

// GenerateAccessKey generates a random access key from a fixed alphabet
// using a cryptographically secure source.
func GenerateAccessKey() (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(accessKeyAlphabet)))
	for i := 0; i < AccessKeyLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(accessKeyAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// GenerateCertificateNumber generates a certificate identifier of the
// form CERT-<16 uppercase hex chars>.
func GenerateCertificateNumber() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "CERT-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// FormatAmount renders a money amount with dot thousands separators and
// no decimal places, e.g. 1000000 -> "1.000.000". External reports rely
// on this exact grouping.
func FormatAmount(amount decimal.Decimal) string {
	digits := amount.Round(0).Abs().BigInt().String()

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	formatted := strings.Join(groups, ".")
	if amount.IsNegative() {
		return "-" + formatted
	}
	return formatted
}

// FormatRupiah prefixes a formatted amount with the currency marker.
func FormatRupiah(amount decimal.Decimal) string {
	return fmt.Sprintf("Rp %s", FormatAmount(amount))
}
