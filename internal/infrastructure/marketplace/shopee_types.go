package marketplace

// Shopee Open Platform wire types. Every response carries the same outer
// envelope; a non-empty error field means the call failed even when the
// HTTP status is 200.

type shopeeEnvelope struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// isSuccess reports whether the envelope carries no platform error
func (e *shopeeEnvelope) isSuccess() bool {
	return e.Error == ""
}

type shopeeTokenResponse struct {
	shopeeEnvelope
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpireIn     int64  `json:"expire_in"`
}

type shopeeOrderListResponse struct {
	shopeeEnvelope
	Response struct {
		More       bool   `json:"more"`
		NextCursor string `json:"next_cursor"`
		OrderList  []struct {
			OrderSN string `json:"order_sn"`
		} `json:"order_list"`
	} `json:"response"`
}

type shopeeOrderDetailResponse struct {
	shopeeEnvelope
	Response struct {
		OrderList []shopeeOrderDetail `json:"order_list"`
	} `json:"response"`
}

type shopeeOrderDetail struct {
	OrderSN           string  `json:"order_sn"`
	TotalAmount       float64 `json:"total_amount"`
	ShippingCarrier   string  `json:"shipping_carrier"`
	ActualShippingFee float64 `json:"actual_shipping_fee"`
	CreateTime        int64   `json:"create_time"`
}
