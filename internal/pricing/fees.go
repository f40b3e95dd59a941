// Package pricing computes the fee and shipping breakdown for an order.
// All amounts are integer cents; percentage fees round half away from zero.
package pricing

import "math"

const (
	// PlatformFeePercentage is the marketplace commission on the subtotal
	PlatformFeePercentage = 0.08

	// BuyerProtectionFeeCents is a fixed fee charged on every order
	BuyerProtectionFeeCents int64 = 150

	// ProcessingFeeCents is a fixed payment processing fee
	ProcessingFeeCents int64 = 50

	// FreeShippingThresholdCents waives shipping above this subtotal
	FreeShippingThresholdCents int64 = 10000

	// BaseShippingCents is the shipping cost for a single item
	BaseShippingCents int64 = 500

	// AdditionalItemShippingCents is added for each item beyond the first
	AdditionalItemShippingCents int64 = 200
)

// FeeBreakdown is the complete cost split for an order quote
type FeeBreakdown struct {
	SubtotalCents        int64 `json:"subtotal_cents"`
	PlatformFeeCents     int64 `json:"platform_fee_cents"`
	BuyerProtectionCents int64 `json:"buyer_protection_cents"`
	ProcessingCents      int64 `json:"processing_cents"`
	ShippingCents        int64 `json:"shipping_cents"`
	TotalCents           int64 `json:"total_cents"`
	SellerPayoutCents    int64 `json:"seller_payout_cents"`
}

// CalculateShipping returns the shipping cost for a subtotal and item count.
// Orders at or above the free-shipping threshold ship free; otherwise the
// base cost applies plus a surcharge per additional item.
func CalculateShipping(subtotalCents int64, itemCount int) int64 {
	if subtotalCents >= FreeShippingThresholdCents {
		return 0
	}

	extra := int64(itemCount - 1)
	if extra < 0 {
		extra = 0
	}

	return BaseShippingCents + extra*AdditionalItemShippingCents
}

// CalculateFees returns the full fee breakdown for a subtotal and item
// count. Pure and deterministic: no error conditions, no side effects.
func CalculateFees(subtotalCents int64, itemCount int) FeeBreakdown {
	// math.Round rounds half away from zero, which keeps the cent
	// amounts stable across platforms
	platformFee := int64(math.Round(float64(subtotalCents) * PlatformFeePercentage))
	shipping := CalculateShipping(subtotalCents, itemCount)

	return FeeBreakdown{
		SubtotalCents:        subtotalCents,
		PlatformFeeCents:     platformFee,
		BuyerProtectionCents: BuyerProtectionFeeCents,
		ProcessingCents:      ProcessingFeeCents,
		ShippingCents:        shipping,
		TotalCents:           subtotalCents + platformFee + BuyerProtectionFeeCents + ProcessingFeeCents + shipping,
		SellerPayoutCents:    subtotalCents - platformFee,
	}
}
