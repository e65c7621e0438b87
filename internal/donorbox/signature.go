package donorbox

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "X-Donorbox-Signature"

// VerifySignature checks the webhook signature header against an HMAC of the
// raw request body. The header is either "<algo>=<hex>" or a bare hex digest;
// "sha1" selects HMAC-SHA1, anything else (including a bare digest) selects
// HMAC-SHA256. A missing or malformed header fails verification, it never
// produces an error.
func VerifySignature(body []byte, header, secret string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}

	algo := ""
	digest := header
	if i := strings.IndexByte(header, '='); i >= 0 {
		algo = strings.ToLower(strings.TrimSpace(header[:i]))
		digest = strings.TrimSpace(header[i+1:])
	}

	var newHash func() hash.Hash
	switch algo {
	case "sha1":
		newHash = sha1.New
	default:
		newHash = sha256.New
	}

	mac := hmac.New(newHash, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal is constant-time for equal lengths and rejects unequal
	// lengths outright.
	return hmac.Equal([]byte(strings.ToLower(digest)), []byte(expected))
}
