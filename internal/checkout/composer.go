// Package checkout turns a cart into a WhatsApp order link.
// There is no payment step; the order is handed off as a prefilled chat
// message to the shop's WhatsApp number.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/miradev/mira/internal/cart"
	"github.com/miradev/mira/internal/domain"
)

// ErrEmptyCart is returned when checkout is attempted with no items.
var ErrEmptyCart = &domain.Error{Code: domain.EINVALID, Message: "Cart is empty"}

// Compose builds the wa.me link for the given cart lines. The message is an
// Arabic order summary: a greeting, one block per line item with quantity and
// subtotal, and a grand total recomputed from the lines themselves.
func Compose(items []cart.LineItem, whatsappNumber string) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	var b strings.Builder
	b.WriteString("مرحباً، أود طلب المنتجات التالية:\n\n")

	total := decimal.Zero
	for _, li := range items {
		subtotal := li.Subtotal()
		total = total.Add(subtotal)
		fmt.Fprintf(&b, "• %s\n  الكمية: %d\n  السعر: $%s\n\n", li.Name, li.Quantity, subtotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "الإجمالي: $%s", total.StringFixed(2))

	return fmt.Sprintf("https://wa.me/%s?text=%s", whatsappNumber, escapeText(b.String())), nil
}

// escapeText percent-encodes the message the way browsers do for query
// text, with spaces as %20 rather than plus signs.
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
