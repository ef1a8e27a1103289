package notify

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type currencySymbol struct {
	symbol string
	prefix bool
}

// currencySymbols - символы валют, в которых работают магазины.
var currencySymbols = map[string]currencySymbol{
	"USD": {"$", true},
	"EUR": {"€", true},
	"GBP": {"£", true},
	"ALL": {"L", false},
	"MKD": {"ден", false},
	"CHF": {"CHF", false},
	"RSD": {"дин.", false},
	"TRY": {"₺", true},
}

// FormatMoney печатает сумму с двумя знаками и символом валюты.
// Для валюты вне таблицы используется ISO-код, если он корректен.
func FormatMoney(code string, amount decimal.Decimal) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	sym, ok := currencySymbols[code]
	if !ok {
		sym = currencySymbol{symbol: code}
		if unit, err := currency.ParseISO(code); err == nil {
			sym.symbol = unit.String()
		}
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	value := amount.StringFixed(2)

	if sym.symbol == "" {
		return sign + value
	}
	if sym.prefix {
		return sign + sym.symbol + value
	}
	return sign + value + " " + sym.symbol
}

// CountryName возвращает название страны по ISO-коду на языке бизнеса.
func CountryName(code, lang string) string {
	region, err := language.ParseRegion(strings.TrimSpace(code))
	if err != nil {
		return code
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	for _, t := range []language.Tag{tag, language.English} {
		// Для языков без данных Regions возвращает nil.
		if namer := display.Regions(t); namer != nil {
			if name := namer.Name(region); name != "" {
				return name
			}
		}
	}
	return code
}
