package marketplace

// Mercado Livre wire types. Unlike Shopee, failures arrive as plain non-2xx
// responses with a JSON error body.

type mlErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

type mlTokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
}

type mlUserResponse struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

type mlOrderSearchResponse struct {
	Results []mlOrder `json:"results"`
	Paging  struct {
		Total  int `json:"total"`
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	} `json:"paging"`
}

type mlOrder struct {
	ID          int64   `json:"id"`
	DateCreated string  `json:"date_created"`
	TotalAmount float64 `json:"total_amount"`
	Shipping    struct {
		ID           int64  `json:"id"`
		ShippingMode string `json:"shipping_mode"`
	} `json:"shipping"`
	Payments []struct {
		ShippingCost float64 `json:"shipping_cost"`
	} `json:"payments"`
}
