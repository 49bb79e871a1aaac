// Package pricing computes shipping, tax and order totals. All functions are
// deterministic and side-effect free so that a client-displayed estimate and
// the server-confirmed total are reproducible bit-for-bit from the same
// inputs.
package pricing

// Tolerance is the epsilon used for price and total equality checks,
// one hundredth of a currency unit.
const Tolerance = 0.01

// Config holds the pricing constants.
type Config struct {
	BaseShippingFee       float64
	FreeShippingThreshold float64
	RemoteSurcharge       float64
	TaxRate               float64
	RemoteRegions         []string
}

// DefaultConfig returns the standard pricing constants.
func DefaultConfig() Config {
	return Config{
		BaseShippingFee:       50,
		FreeShippingThreshold: 250,
		RemoteSurcharge:       20,
		TaxRate:               0.18,
		RemoteRegions: []string{
			"Andaman and Nicobar Islands",
			"Lakshadweep",
			"Ladakh",
			"Arunachal Pradesh",
		},
	}
}

// Quote is the server-computed price breakdown for an order.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Calculator computes shipping, tax and totals from a fixed configuration.
type Calculator struct {
	cfg    Config
	remote map[string]struct{}
}

// NewCalculator creates a calculator with the given configuration.
func NewCalculator(cfg Config) *Calculator {
	remote := make(map[string]struct{}, len(cfg.RemoteRegions))
	for _, r := range cfg.RemoteRegions {
		remote[r] = struct{}{}
	}
	return &Calculator{cfg: cfg, remote: remote}
}

// Shipping returns the shipping cost for a subtotal shipped to region. The
// base fee is waived once the subtotal reaches the free-shipping threshold;
// remote regions always pay a fixed surcharge on top.
func (c *Calculator) Shipping(subtotal float64, region string) float64 {
	cost := 0.0
	if subtotal < c.cfg.FreeShippingThreshold {
		cost = c.cfg.BaseShippingFee
	}
	if _, ok := c.remote[region]; ok {
		cost += c.cfg.RemoteSurcharge
	}
	return cost
}

// Tax returns the tax on a subtotal. Rounding is applied exactly once, on
// the whole subtotal, never accumulated per line item.
func (c *Calculator) Tax(subtotal float64) float64 {
	return RoundHalfUp(subtotal * c.cfg.TaxRate)
}

// Quote computes the full price breakdown for a subtotal and destination
// region.
func (c *Calculator) Quote(subtotal float64, region string) Quote {
	shipping := c.Shipping(subtotal, region)
	tax := c.Tax(subtotal)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    RoundHalfUp(subtotal + shipping + tax),
	}
}

// RoundHalfUp rounds v to the smallest currency unit (0.01) with ties going
// up. Uses an integer intermediate so the same input always rounds the same
// way.
func RoundHalfUp(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// WithinTolerance reports whether a and b are equal within Tolerance.
func WithinTolerance(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= Tolerance
}
