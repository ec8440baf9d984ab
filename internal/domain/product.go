package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// CategoryAll is the sentinel category that matches every product.
const CategoryAll = "ALL"

// Categories is the fixed set offered by the catalog tabs and the admin
// product form. Products may also carry no category at all.
var Categories = []string{
	"Perfumes",
	"Beauty",
	"Accessories",
	"Clothing",
	"Home",
	"Electronics",
	"Gifts",
}

// Product is a catalog entry. The database is the sole owner; handlers work
// with read-only snapshots refreshed after every mutation.
type Product struct {
	ID          pgtype.UUID
	Name        string
	Description pgtype.Text
	Price       decimal.Decimal
	ImageURL    pgtype.Text
	Category    pgtype.Text
	InStock     bool
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

// ProductDraft is the raw form state for creating or editing a product.
// Every field arrives as text; Validate turns a draft into ProductParams
// or reports the first violated rule.
type ProductDraft struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
	Category    string
	InStock     bool
}

// ProductParams is a validated, normalized draft ready to persist.
type ProductParams struct {
	Name        string
	Description pgtype.Text
	Price       decimal.Decimal
	ImageURL    pgtype.Text
	Category    pgtype.Text
	InStock     bool
}

// =============================================================================
// STORE CONTRACT
// =============================================================================

// ProductStore provides persistence for products.
// Implementations live in the postgres package.
type ProductStore interface {
	// ListProducts returns all products, newest first.
	ListProducts(ctx context.Context) ([]Product, error)

	// ListInStockProducts returns only in-stock products, newest first.
	ListInStockProducts(ctx context.Context) ([]Product, error)

	// GetProduct retrieves a product by ID.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// CreateProduct inserts a new product and returns it with its
	// server-assigned identifier.
	CreateProduct(ctx context.Context, params ProductParams) (*Product, error)

	// UpdateProduct replaces the mutable fields of an existing product.
	UpdateProduct(ctx context.Context, id string, params ProductParams) error

	// DeleteProduct removes a product permanently.
	DeleteProduct(ctx context.Context, id string) error
}

// SettingsStore persists the key/value configuration the admin panel edits.
type SettingsStore interface {
	// GetSetting returns the value for key, or ErrSettingNotFound.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting inserts or overwrites the value for key.
	SetSetting(ctx context.Context, key, value string) error
}

// SettingWhatsAppNumber is the settings key for the checkout destination.
const SettingWhatsAppNumber = "whatsapp_number"

// =============================================================================
// DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrSettingNotFound = &Error{Code: ENOTFOUND, Message: "Setting not found"}
)
