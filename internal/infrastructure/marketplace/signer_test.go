package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignWithTimestamp_PublicEndpoint(t *testing.T) {
	// public endpoints (token exchange) sign without access token or shop ID
	sign := signWithTimestamp("/api/v2/auth/token/get", 2005001, "shpk-secret", "", 0, 1717243200)
	assert.Equal(t, "ede05ed1f6f20c4d36224d9684f69d5dbf8b7aa490c8a40461a8bcd7ae4349ef", sign)
}

func TestSignWithTimestamp_ShopEndpoint(t *testing.T) {
	sign := signWithTimestamp("/api/v2/order/get_order_list", 2005001, "shpk-secret", "access-token", 225566, 1717243200)
	assert.Equal(t, "dcec9ee6c864fd6ddacf8e20271989464962950ce20f6e8401b7fe1501930a00", sign)
}

func TestSignWithTimestamp_Deterministic(t *testing.T) {
	a := signWithTimestamp("/api/v2/order/get_order_list", 2005001, "shpk-secret", "access-token", 225566, 1717243200)
	b := signWithTimestamp("/api/v2/order/get_order_list", 2005001, "shpk-secret", "access-token", 225566, 1717243200)
	assert.Equal(t, a, b)
}

func TestSignWithTimestamp_KeyChangesSignature(t *testing.T) {
	a := signWithTimestamp("/api/v2/order/get_order_list", 2005001, "shpk-secret", "access-token", 225566, 1717243200)
	b := signWithTimestamp("/api/v2/order/get_order_list", 2005001, "other-key", "access-token", 225566, 1717243200)
	assert.Equal(t, "d723091608c3fe411557d5f2bb4781c89091b223876c5591be304c3758196763", b)
	assert.NotEqual(t, a, b)
}

func TestSignWithTimestamp_TimestampChangesSignature(t *testing.T) {
	a := signWithTimestamp("/api/v2/auth/token/get", 2005001, "shpk-secret", "", 0, 1717243200)
	b := signWithTimestamp("/api/v2/auth/token/get", 2005001, "shpk-secret", "", 0, 1717243201)
	assert.NotEqual(t, a, b)
}

func TestSignRequest_ReturnsUsableTimestamp(t *testing.T) {
	sign, ts := SignRequest("/api/v2/order/get_order_list", 2005001, "shpk-secret", "access-token", 225566)
	assert.Len(t, sign, 64)
	assert.Greater(t, ts, int64(0))
	// the returned timestamp must reproduce the returned signature
	assert.Equal(t, sign, signWithTimestamp("/api/v2/order/get_order_list", 2005001, "shpk-secret", "access-token", 225566, ts))
}
