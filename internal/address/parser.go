// Package address разбирает адрес доставки из свободного текста в структуру.
// Разбор приблизительный и настроен на страны, где работают магазины.
package address

import (
	"regexp"
	"strings"

	"storefront/internal/model"
)

// DefaultCountry подставляется, если страна в тексте не найдена.
const DefaultCountry = "US"

// postalCodePattern: 3-5 цифр, за которыми могут идти еще 1-2 цифры (например "106 82").
var postalCodePattern = regexp.MustCompile(`\b\d{3,5}(?:\s?\d{1,2})?\b`)

var countryCodes = map[string]bool{
	"AL": true, "GR": true, "IT": true, "ES": true, "US": true, "XK": true,
	"MK": true, "GB": true, "FR": true, "DE": true, "NL": true,
}

// countryNames - названия стран (в нижнем регистре) и их коды. Длинные названия
// идут раньше коротких, чтобы "north macedonia" находилось до "macedonia".
var countryNames = []countryName{
	{"united states", "US"},
	{"united kingdom", "GB"},
	{"north macedonia", "MK"},
	{"netherlands", "NL"},
	{"macedonia", "MK"},
	{"shqipëri", "AL"},
	{"shqiperi", "AL"},
	{"albania", "AL"},
	{"greece", "GR"},
	{"germany", "DE"},
	{"kosovo", "XK"},
	{"france", "FR"},
	{"italy", "IT"},
	{"spain", "ES"},
	{"usa", "US"},
}

type countryName struct {
	name string
	code string
}

// countryPatterns - регистронезависимые шаблоны названий. Поиск идет по исходной
// строке: у части символов длина в байтах меняется при смене регистра.
var countryPatterns, trailingCountryPatterns = compileCountryPatterns()

func compileCountryPatterns() ([]*regexp.Regexp, []*regexp.Regexp) {
	anywhere := make([]*regexp.Regexp, len(countryNames))
	trailing := make([]*regexp.Regexp, len(countryNames))
	for i, c := range countryNames {
		quoted := regexp.QuoteMeta(c.name)
		anywhere[i] = regexp.MustCompile("(?i)" + quoted)
		trailing[i] = regexp.MustCompile(`(?i)(?:^|\s)` + quoted + `$`)
	}
	return anywhere, trailing
}

// Hints - структурированные поля чекаута (город, код страны, индекс), если магазин их собирает.
type Hints struct {
	City        string
	CountryCode string
	PostalCode  string
}

// HasStructured сообщает, что клиент прислал город и страну отдельными полями.
func (h Hints) HasStructured() bool {
	return strings.TrimSpace(h.City) != "" && strings.TrimSpace(h.CountryCode) != ""
}

// Parse выбирает режим разбора: структурированный, если есть подсказки, иначе свободный текст.
func Parse(raw string, lat, lng *float64, hints Hints) model.Address {
	if hints.HasStructured() {
		return ParseStructured(raw, lat, lng, hints)
	}
	return ParseFreeText(raw, lat, lng)
}

// ParseFreeText разбирает адрес вида "улица, город [индекс], [доп. строка] страна".
func ParseFreeText(raw string, lat, lng *float64) model.Address {
	addr := model.Address{Latitude: lat, Longitude: lng}

	parts := splitSegments(raw)
	switch len(parts) {
	case 0:
		return addr
	case 1:
		addr.Street = parts[0]
		return addr
	}

	addr.Street = parts[0]
	addr.City = cleanSpaces(postalCodePattern.ReplaceAllString(parts[1], ""))
	addr.Country = DefaultCountry

	if matches := postalCodePattern.FindAllString(raw, -1); len(matches) > 0 {
		addr.ZipCode = matches[len(matches)-1]
	}

	if len(parts) == 2 {
		// "улица, город [страна]": страна допускается только последним словом.
		if code, rest, ok := trailingCountry(addr.City); ok && rest != "" {
			addr.Country = code
			addr.City = rest
		}
		return addr
	}

	extra := make([]string, 0, len(parts)-2)
	extra = append(extra, parts[2:len(parts)-1]...)

	last := parts[len(parts)-1]
	if code, rest, ok := detectCountry(last); ok {
		addr.Country = code
		last = rest
	}
	if addr.ZipCode != "" {
		last = strings.Replace(last, addr.ZipCode, "", 1)
	}
	last = cleanSpaces(last)
	if last != "" {
		extra = append(extra, last)
	}
	addr.Additional = strings.Join(extra, ", ")

	return addr
}

// ParseStructured берет город, страну и индекс из подсказок как есть, а текст
// делит только на улицу и дополнительную строку: все до последнего вхождения
// города (или кода страны) считается "улица, доп. строка".
func ParseStructured(raw string, lat, lng *float64, hints Hints) model.Address {
	addr := model.Address{
		City:      strings.TrimSpace(hints.City),
		ZipCode:   strings.TrimSpace(hints.PostalCode),
		Country:   strings.ToUpper(strings.TrimSpace(hints.CountryCode)),
		Latitude:  lat,
		Longitude: lng,
	}

	text := strings.TrimSpace(raw)
	if idx := lastIndexFold(text, addr.City); idx >= 0 {
		text = text[:idx]
	} else if idx := lastIndexFold(text, addr.Country); idx >= 0 {
		text = text[:idx]
	}

	parts := splitSegments(text)
	if len(parts) == 0 {
		return addr
	}
	addr.Street = parts[0]
	addr.Additional = strings.Join(parts[1:], ", ")

	return addr
}

// detectCountry ищет в сегменте код страны из списка или название страны.
// Возвращает код и остаток сегмента без найденного токена.
func detectCountry(segment string) (string, string, bool) {
	words := strings.Fields(segment)
	for i, w := range words {
		token := strings.Trim(w, ".;")
		if token == strings.ToUpper(token) && countryCodes[token] {
			rest := append(append([]string{}, words[:i]...), words[i+1:]...)
			return token, strings.Join(rest, " "), true
		}
	}

	for i, re := range countryPatterns {
		if loc := re.FindStringIndex(segment); loc != nil {
			rest := segment[:loc[0]] + segment[loc[1]:]
			return countryNames[i].code, cleanSpaces(rest), true
		}
	}
	return "", segment, false
}

// trailingCountry ищет код или название страны в конце сегмента.
func trailingCountry(segment string) (string, string, bool) {
	words := strings.Fields(segment)
	if len(words) == 0 {
		return "", segment, false
	}
	if last := strings.Trim(words[len(words)-1], ".;"); countryCodes[last] {
		return last, strings.Join(words[:len(words)-1], " "), true
	}
	for i, re := range trailingCountryPatterns {
		if loc := re.FindStringIndex(segment); loc != nil {
			return countryNames[i].code, cleanSpaces(segment[:loc[0]]), true
		}
	}
	return "", segment, false
}

// lastIndexFold - байтовое смещение последнего регистронезависимого вхождения
// token в исходной строке s, или -1.
func lastIndexFold(s, token string) int {
	if token == "" {
		return -1
	}
	matches := regexp.MustCompile("(?i)"+regexp.QuoteMeta(token)).FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return -1
	}
	return matches[len(matches)-1][0]
}

func splitSegments(raw string) []string {
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func cleanSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
