package notify

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"storefront/internal/model"
	"storefront/internal/phone"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

// Line - позиция заказа с именами товара и варианта для сводки.
type Line struct {
	Name      string
	Variant   string
	Modifiers []string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Summary - данные для текстовой сводки заказа.
type Summary struct {
	Business      *model.Business
	Order         *model.Order
	CustomerName  string
	CustomerPhone string
	Lines         []Line
	// DeliveryLabel - название зоны или перевозчика.
	DeliveryLabel string
	DistanceKm    float64
	// Address - разобранный адрес доставки (страна и индекс).
	Address *model.Address
}

// Formatter собирает локализованную сводку заказа в формате WhatsApp (*жирный*).
type Formatter struct {
	book          *Phrasebook
	policy        *bluemonday.Policy
	storefrontURL string
}

func NewFormatter(book *Phrasebook, storefrontURL string) *Formatter {
	return &Formatter{
		book:          book,
		policy:        bluemonday.StrictPolicy(),
		storefrontURL: strings.TrimRight(storefrontURL, "/"),
	}
}

// Phrases возвращает фразы для бизнеса.
func (f *Formatter) Phrases(b *model.Business) Phrases {
	return f.book.For(b.Language, b.Type)
}

// clean убирает разметку из текста, введенного клиентом.
func (f *Formatter) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(f.policy.Sanitize(s)))
}

func (f *Formatter) Format(s Summary) string {
	b, o := s.Business, s.Order
	p := f.Phrases(b)
	money := func(d decimal.Decimal) string { return FormatMoney(b.Currency, d) }

	var sb strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&sb, format, args...)
		sb.WriteByte('\n')
	}

	line("*%s #%s*", p.Get("newOrder"), o.OrderNumber)
	line("*%s*", fulfillmentLabel(p, o.Type))
	sb.WriteByte('\n')

	line("*%s:*", p.Get("items"))
	for _, l := range s.Lines {
		name := f.clean(l.Name)
		if l.Variant != "" {
			name += " (" + f.clean(l.Variant) + ")"
		}
		if len(l.Modifiers) > 0 {
			mods := make([]string, 0, len(l.Modifiers))
			for _, m := range l.Modifiers {
				mods = append(mods, f.clean(m))
			}
			name += " + " + strings.Join(mods, ", ")
		}
		total := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		line("• %dx %s - %s", l.Quantity, name, money(total))
	}
	sb.WriteByte('\n')

	line("%s: %s", p.Get("subtotal"), money(o.Subtotal))
	if o.Discount.IsPositive() {
		line("%s: %s", p.Get("discount"), money(o.Discount.Neg()))
	}
	if o.Type == model.FulfillmentDelivery {
		label := p.Get("deliveryFee")
		if s.DeliveryLabel != "" {
			label += " (" + s.DeliveryLabel + ")"
		}
		line("%s: %s", label, money(o.DeliveryFee))
	}
	if o.Tax.IsPositive() {
		line("%s: %s", p.Get("tax"), money(o.Tax))
	}
	line("*%s: %s*", p.Get("total"), money(o.Total))
	sb.WriteByte('\n')

	line("*%s:* %s", p.Get("customer"), f.clean(s.CustomerName))
	line("%s: %s", p.Get("phone"), f.clean(s.CustomerPhone))
	sb.WriteByte('\n')

	switch o.Type {
	case model.FulfillmentDelivery:
		if o.DeliveryAddress != nil {
			line("*%s:* %s", p.Get("deliveryAddress"), f.formatAddress(*o.DeliveryAddress, s.Address, p.Language()))
		}
		if !b.IsRetail() {
			if o.DeliveryLatitude != nil && o.DeliveryLongitude != nil {
				line("%s: %s", p.Get("map"), MapLink(*o.DeliveryLatitude, *o.DeliveryLongitude))
			}
			line("%s: %.2f km", p.Get("distance"), s.DistanceKm)
		}
	case model.FulfillmentPickup:
		if b.Address != "" {
			line("*%s:* %s", p.Get("pickupFrom"), b.Address)
		}
		if b.EstimatedPickupTime != "" {
			line("%s: %s", p.Get("estimatedTime"), b.EstimatedPickupTime)
		}
	case model.FulfillmentDineIn:
		if b.Address != "" {
			line("*%s:* %s", p.Get("dineInAt"), b.Address)
		}
		if o.DeliveryTime != nil {
			line("%s: %s", p.Get("arrivalTime"), o.DeliveryTime.Format("2006-01-02 15:04"))
		}
	}
	sb.WriteByte('\n')

	line("%s: %s", p.Get("payment"), o.PaymentMethod)
	if o.SpecialInstructions != nil {
		if notes := f.clean(*o.SpecialInstructions); notes != "" {
			line("*%s:* %s", p.Get("notes"), notes)
		}
	}
	sb.WriteByte('\n')

	sb.WriteString(b.Name)
	if site := f.website(b); site != "" {
		sb.WriteByte('\n')
		sb.WriteString(site)
	}

	return sb.String()
}

func fulfillmentLabel(p Phrases, t model.FulfillmentType) string {
	switch t {
	case model.FulfillmentDelivery:
		return p.Get("delivery")
	case model.FulfillmentPickup:
		return p.Get("pickup")
	case model.FulfillmentDineIn:
		return p.Get("dineIn")
	default:
		return string(t)
	}
}

func (f *Formatter) website(b *model.Business) string {
	if b.Website != "" {
		return b.Website
	}
	if f.storefrontURL == "" || b.Slug == "" {
		return ""
	}
	return f.storefrontURL + "/" + b.Slug
}

// formatAddress заменяет код страны ее названием и дописывает индекс, если его нет в тексте.
func (f *Formatter) formatAddress(raw string, addr *model.Address, lang string) string {
	text := f.clean(raw)
	if addr == nil {
		return text
	}
	if code := addr.Country; code != "" {
		name := CountryName(code, lang)
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(code) + `\b`)
		if re.MatchString(text) {
			text = re.ReplaceAllLiteralString(text, name)
		}
	}
	if zip := addr.ZipCode; zip != "" && !strings.Contains(text, zip) {
		text += ", " + zip
	}
	return text
}

// MapLink - ссылка на точку доставки в Google Maps.
func MapLink(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", lat, lng)
}

// DeepLink - ссылка wa.me с заполненным текстом. Пробелы кодируются как %20,
// так как WhatsApp не декодирует "+".
func DeepLink(number, text string) string {
	query := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone.Normalize(number), query)
}
