// Package phone приводит телефонные номера к виду, пригодному для сравнения.
package phone

import (
	"strings"
	"unicode"
)

// MinDigits - минимальное число цифр в валидном номере.
const MinDigits = 10

// minSuffixDigits - минимальная длина абонентской части для сравнения по суффиксу.
const minSuffixDigits = 7

// Normalize оставляет только цифры и убирает международный префикс "00".
// Результат используется только для сравнения, отображаемый номер хранится как есть.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "00") {
		digits = digits[2:]
	}
	return digits
}

// IsValid проверяет, что в номере достаточно цифр.
func IsValid(raw string) bool {
	return len(Normalize(raw)) >= MinDigits
}

// Match сравнивает два номера после нормализации. Номера совпадают, если равны,
// либо один является другим без кода страны (или с национальным нулем вместо него).
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	na, nb = strings.TrimLeft(na, "0"), strings.TrimLeft(nb, "0")
	if na == nb {
		return na != ""
	}

	short, long := na, nb
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) < minSuffixDigits {
		return false
	}
	return strings.HasSuffix(long, short)
}
