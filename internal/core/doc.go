// Package core provides the catalog, search and cart logic for the dispenser
// shop.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Catalog: the in-memory product snapshot, refreshed from a remote
//     [Source] and replaced by the bundled fallback when a refresh fails.
//   - Normalization: raw spreadsheet rows and bundled entries become
//     [Product] values through ordered synonym tables.
//   - Search: substring [Filter], ranked [Suggest] and tag filtering.
//   - Cart: stock-bounded lines, coupon discounts and decimal totals,
//     persisted per visitor by [CartService] through a [CartStore].
//   - Messages: order and contact texts turned into wa.me links by [Links].
//
// # Catalog Refresh
//
// A refresh fetches the sheet export, decodes it as CSV and normalizes every
// row. The flow is:
//
//  1. [Catalog.Refresh] takes a slot from the [RefreshLimiter]
//  2. The body is capped, BOM-stripped and UTF-8 sanitized
//  3. Rows are normalized; zero products counts as a failure
//  4. The snapshot is swapped unless a newer refresh already finished
//
// [Catalog.StartRefreshScheduler] repeats this on a fixed interval.
//
// # Money
//
// Prices are net of tax and carried as decimals. Totals are never rounded;
// [FormatARS] rounds to cents when displaying. The order message rounds each
// unit price before multiplying, so line subtotals may differ from the footer
// by a few cents.
//
// # Error Handling
//
// Technical errors are mapped to Spanish user messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - CAT001-CAT004: Catalog errors (unknown product or tag, sync, refresh busy)
//   - CART001-CART003: Cart errors (stock, missing line, empty cart)
//   - CPN001: Invalid coupon
//   - REQ001-REQ002, RATE001: Request errors
//   - UPS001-UPS003: Storage and upstream errors
package core
