package marketplace

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// SignRequest signs a Shopee Open Platform call and returns both the
// signature and the timestamp it was computed with; the caller must send
// that exact timestamp or the platform rejects the signature.
//
// The base string is the concatenation, with no delimiters, of
// partner_id + api path + timestamp, plus access_token and shop_id when
// present (shop-level APIs). It is HMAC-SHA256'd with the partner key and
// hex encoded.
func SignRequest(path string, partnerID int64, partnerKey, accessToken string, shopID int64) (string, int64) {
	timestamp := time.Now().Unix()
	return signWithTimestamp(path, partnerID, partnerKey, accessToken, shopID, timestamp), timestamp
}

func signWithTimestamp(path string, partnerID int64, partnerKey, accessToken string, shopID int64, timestamp int64) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(partnerID, 10))
	b.WriteString(path)
	b.WriteString(strconv.FormatInt(timestamp, 10))
	if accessToken != "" {
		b.WriteString(accessToken)
	}
	if shopID != 0 {
		b.WriteString(strconv.FormatInt(shopID, 10))
	}

	h := hmac.New(sha256.New, []byte(partnerKey))
	h.Write([]byte(b.String()))
	return hex.EncodeToString(h.Sum(nil))
}
