package render

import (
	"math/big"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	successStyle = color.New(color.FgGreen)
	warningStyle = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed)
	labelStyle   = color.New(color.Bold)
	faintStyle   = color.New(color.Faint)
)

var numbers = message.NewPrinter(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return errorStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// formatUnits renders an integer amount scaled down by 10^decimals
func formatUnits(amount *big.Int, decimals int, precision int) string {
	if amount == nil {
		return "0"
	}
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value := new(big.Float).Quo(new(big.Float).SetInt(amount), scale)
	return value.Text('f', precision)
}

// formatCount renders n with thousands separators
func formatCount(n uint64) string {
	return numbers.Sprintf("%d", n)
}
