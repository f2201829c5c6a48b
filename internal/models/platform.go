package models

// Platform identifies an upstream marketplace or storefront.
type Platform string

const (
	PlatformShopify Platform = "shopify"
	PlatformAmazon  Platform = "amazon"
	PlatformWalmart Platform = "walmart"
	PlatformEbay    Platform = "ebay"
	PlatformEtsy    Platform = "etsy"
	PlatformWayfair Platform = "wayfair"
)

// Platforms returns every platform the dashboard knows about, in a fixed
// order so reports and credential status listings are stable.
func Platforms() []Platform {
	return []Platform{
		PlatformShopify,
		PlatformAmazon,
		PlatformWalmart,
		PlatformEbay,
		PlatformEtsy,
		PlatformWayfair,
	}
}

func ParsePlatform(s string) (Platform, bool) {
	switch Platform(s) {
	case PlatformShopify, PlatformAmazon, PlatformWalmart, PlatformEbay, PlatformEtsy, PlatformWayfair:
		return Platform(s), true
	}
	return "", false
}

func (p Platform) String() string {
	return string(p)
}
