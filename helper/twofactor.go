package helper

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func GenerateTOTPKey(issuer, account string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
}

// ValidateTOTP accepts the code for the current 30s step and one step either side.
func ValidateTOTP(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// GenerateRecoveryCodes returns n codes formatted as xxxxx-xxxxx and their hashes.
func GenerateRecoveryCodes(n int) ([]string, []string, error) {
	plain := make([]string, 0, n)
	hashed := make([]string, 0, n)
	for i := 0; i < n; i++ {
		raw, err := RandomHex(5)
		if err != nil {
			return nil, nil, err
		}
		code := raw[:5] + "-" + raw[5:]
		plain = append(plain, code)
		hashed = append(hashed, HashRecoveryCode(code))
	}
	return plain, hashed, nil
}

func HashRecoveryCode(code string) string {
	normalized := strings.ToLower(strings.NewReplacer("-", "", " ", "").Replace(code))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
