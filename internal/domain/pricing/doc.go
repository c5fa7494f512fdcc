// Package pricing resolves the price a shopper sees for a product variant.
//
// Two mutually exclusive paths exist. Retail shoppers get promotional
// pricing from the active campaigns (ResolveFinalPrice and
// GetProductMinPrice). Resellers never receive promotional discounts; they
// are priced from their category's quantity tiers (SelectTier and
// ResolveResellerPrice).
//
// Every function here is pure. Promotions are passed in as a snapshot that
// is fetched once per request, and the reference instant is an argument, so
// identical inputs always produce identical outputs and the functions are
// safe for concurrent use.
package pricing
