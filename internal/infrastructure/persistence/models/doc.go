// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// of ORM concerns.
//
// Per-currency amounts are stored as jsonb objects keyed by ISO code, and
// reseller tier lists as a jsonb array, so a currency can be added without a
// schema change.
package models
