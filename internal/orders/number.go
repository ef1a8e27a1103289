package orders

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// NumberPlaceholder заменяется в формате номера заказа сгенерированной частью.
const NumberPlaceholder = "{number}"

// DefaultNumberFormat используется, если бизнес не задал свой формат.
const DefaultNumberFormat = "ORD-" + NumberPlaceholder

// NumberGenerator выдает номера заказов: 6 последних цифр времени в миллисекундах
// и 3 случайные цифры. Уникальность не проверяется, конфликт вставки отдается клиенту как 409.
type NumberGenerator struct {
	now    func() time.Time
	random func(n int) int
}

func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{now: time.Now, random: rand.IntN}
}

// Next подставляет номер в формат бизнеса.
func (g *NumberGenerator) Next(format string) string {
	if strings.TrimSpace(format) == "" {
		format = DefaultNumberFormat
	}
	if !strings.Contains(format, NumberPlaceholder) {
		format += NumberPlaceholder
	}

	stamp := g.now().UnixMilli() % 1_000_000
	number := fmt.Sprintf("%06d%03d", stamp, g.random(1000))
	return strings.ReplaceAll(format, NumberPlaceholder, number)
}
