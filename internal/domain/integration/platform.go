package integration

// ---------------------------------------------------------------------------
// PlatformCode
// ---------------------------------------------------------------------------

// PlatformCode identifies a connected marketplace platform
type PlatformCode string

const (
	// PlatformCodeMercadoLivre represents Mercado Livre (Mercado Libre Brazil)
	PlatformCodeMercadoLivre PlatformCode = "ML"
	// PlatformCodeShopee represents Shopee Brazil
	PlatformCodeShopee PlatformCode = "SHOPEE"
)

// IsValid returns true if the platform code is valid
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformCodeMercadoLivre, PlatformCodeShopee:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the platform
func (c PlatformCode) DisplayName() string {
	switch c {
	case PlatformCodeMercadoLivre:
		return "Mercado Livre"
	case PlatformCodeShopee:
		return "Shopee"
	default:
		return string(c)
	}
}

// AllPlatformCodes returns every supported platform, in a stable order
func AllPlatformCodes() []PlatformCode {
	return []PlatformCode{PlatformCodeMercadoLivre, PlatformCodeShopee}
}
