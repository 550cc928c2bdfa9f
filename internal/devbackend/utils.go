package devbackend

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

func generateOTP(length int) string {
	var b strings.Builder
	b.Grow(length)
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, _ := rand.Int(rand.Reader, ten)
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String()
}

func randomString(length int) string {
	data := make([]byte, length)
	_, err := rand.Read(data)
	if err != nil {
		panic(err)
	}
	return base32.StdEncoding.EncodeToString(data)[:length]
}

// generateRecoveryCode returns a code shaped like ABCD-EFGH-IJ.
func generateRecoveryCode() string {
	s := randomString(10)
	return s[:4] + "-" + s[4:8] + "-" + s[8:]
}

func calculateHash(key []byte, inputs ...interface{}) string {
	h := hmac.New(sha256.New, key)
	for _, val := range inputs {
		switch v := val.(type) {
		case []byte:
			h.Write(v)
		default:
			h.Write([]byte(fmt.Sprintf("%v", v)))
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
