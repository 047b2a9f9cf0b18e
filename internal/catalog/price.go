package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBRL reads a Brazilian-formatted amount such as "R$ 1.234,56". Unparseable
// input yields zero.
func ParseBRL(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, "R$", ""))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseEditedPrice reads what the user typed in a price cell: a decimal with
// either separator.
func parseEditedPrice(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
}
