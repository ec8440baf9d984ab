package domain

import (
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Maximum field lengths for a product draft.
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
	MaxImageURLLength    = 500
	MaxCategoryLength    = 100
)

// MaxPrice is the upper bound for a product price.
var MaxPrice = decimal.NewFromInt(999999)

// Field messages surfaced to the admin, one per violated rule.
const (
	MsgNameRequired       = "Product name is required"
	MsgNameTooLong        = "Product name is too long"
	MsgDescriptionTooLong = "Description is too long"
	MsgPriceNotNumeric    = "Price is not a valid number"
	MsgPriceNotPositive   = "Price must be positive"
	MsgPriceTooHigh       = "Price is too high"
	MsgImageURLInvalid    = "Image URL is not valid"
	MsgImageURLTooLong    = "Image URL is too long"
	MsgCategoryTooLong    = "Category is too long"
)

// ValidateDraft checks a product draft field by field in a fixed order
// (name, description, price, image URL, category, in-stock) and stops at
// the first violation, so the admin sees a single message per attempt.
// On success it returns the normalized params; the draft is never mutated.
func ValidateDraft(d ProductDraft) (*ProductParams, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, NewValidationError("name", MsgNameRequired)
	}
	if len([]rune(name)) > MaxNameLength {
		return nil, NewValidationError("name", MsgNameTooLong)
	}

	description := strings.TrimSpace(d.Description)
	if len([]rune(description)) > MaxDescriptionLength {
		return nil, NewValidationError("description", MsgDescriptionTooLong)
	}

	price, err := parsePrice(d.Price)
	if err != nil {
		return nil, err
	}

	imageURL := strings.TrimSpace(d.ImageURL)
	if imageURL != "" {
		if !isWellFormedURL(imageURL) {
			return nil, NewValidationError("image_url", MsgImageURLInvalid)
		}
		if len([]rune(imageURL)) > MaxImageURLLength {
			return nil, NewValidationError("image_url", MsgImageURLTooLong)
		}
	}

	category := strings.TrimSpace(d.Category)
	if len([]rune(category)) > MaxCategoryLength {
		return nil, NewValidationError("category", MsgCategoryTooLong)
	}

	return &ProductParams{
		Name:        name,
		Description: optionalText(description),
		Price:       price,
		ImageURL:    optionalText(imageURL),
		Category:    optionalText(category),
		InStock:     d.InStock,
	}, nil
}

// parsePrice distinguishes non-numeric input from out-of-range values so the
// two cases produce different messages.
func parsePrice(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, NewValidationError("price", MsgPriceNotNumeric)
	}

	price, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, NewValidationError("price", MsgPriceNotNumeric)
	}

	if !price.IsPositive() {
		return decimal.Zero, NewValidationError("price", MsgPriceNotPositive)
	}
	if price.GreaterThan(MaxPrice) {
		return decimal.Zero, NewValidationError("price", MsgPriceTooHigh)
	}

	return price, nil
}

func isWellFormedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// optionalText maps the empty string to a SQL NULL.
func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
