package progress

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// CurrencySymbol returns the display symbol for an ISO currency code.
// Unknown codes are returned followed by a space.
func CurrencySymbol(currency string) string {
	if sym, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return sym
	}
	if currency == "" {
		return ""
	}
	return currency + " "
}

// FormatAmount renders amount with digit grouping: 50000 INR is "₹50,000".
// Whole amounts carry no decimals.
func FormatAmount(amount float64, currency string) string {
	return CurrencySymbol(currency) + FormatNumber(amount)
}

// FormatNumber groups digits and keeps two decimals only for fractional values.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%.0f", v)
	}
	return printer.Sprintf("%.2f", v)
}

// FormatFileSize renders a byte count in kilobytes with one decimal.
func FormatFileSize(size int64) string {
	return fmt.Sprintf("%.1f KB", float64(size)/1024)
}

// FormatShortDate renders "04 Oct 2025".
func FormatShortDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// FormatLongDate renders "October 4, 2025".
func FormatLongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// FormatTimestamp renders "04/10/2025 3:30 PM".
func FormatTimestamp(t time.Time) string {
	return t.Format("02/01/2006 3:04 PM")
}
