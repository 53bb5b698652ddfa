package models

// MaxGiftLimit bounds a per-gift limit override
const MaxGiftLimit = 100000

// GiftLimits maps a gift name to the maximum number of winners it allows.
// A gift without an entry is unlimited.
type GiftLimits map[string]int

// DefaultGiftLimits returns the gift categories the event starts with
func DefaultGiftLimits() GiftLimits {
	return GiftLimits{
		"1등 해외연수":           1,
		"2등 다이슨 에어랩 코안다2x™": 1,
		"3등 다이슨 에어랩 i.d.™":  1,
		"4등 커피머신":           10,
		"5등 스타벅스상품권":        40,
	}
}

// Clone returns an independent copy of the limits
func (g GiftLimits) Clone() GiftLimits {
	out := make(GiftLimits, len(g))
	for gift, limit := range g {
		out[gift] = limit
	}
	return out
}

// Lookup returns the limit for a gift and whether one is configured
func (g GiftLimits) Lookup(gift string) (int, bool) {
	limit, ok := g[gift]
	return limit, ok
}
