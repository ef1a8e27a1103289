package notify

import (
	_ "embed"
	"fmt"
	"strings"

	"storefront/internal/model"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	fallbackLanguage = "en"
	defaultSection   = "default"
)

//go:embed phrases.yaml
var phrasesYAML []byte

// Phrasebook - таблица фраз: язык -> тип бизнеса -> поле.
type Phrasebook struct {
	table map[string]map[string]map[string]string
}

// LoadPhrasebook разбирает YAML-таблицу фраз. Английский раздел "default" обязателен.
func LoadPhrasebook(data []byte) (*Phrasebook, error) {
	var table map[string]map[string]map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("не удалось разобрать таблицу фраз: %w", err)
	}
	if len(table[fallbackLanguage][defaultSection]) == 0 {
		return nil, fmt.Errorf("в таблице фраз нет раздела %s.%s", fallbackLanguage, defaultSection)
	}
	return &Phrasebook{table: table}, nil
}

// DefaultPhrasebook загружает встроенную таблицу.
func DefaultPhrasebook() *Phrasebook {
	book, err := LoadPhrasebook(phrasesYAML)
	if err != nil {
		panic(err)
	}
	return book
}

// Phrases - фразы для конкретного языка и типа бизнеса.
type Phrases struct {
	book         *Phrasebook
	language     string
	businessType string
}

// For выбирает язык по базовому тегу ("sq-AL" -> "sq"); неизвестный язык заменяется английским.
func (b *Phrasebook) For(lang string, businessType model.BusinessType) Phrases {
	return Phrases{book: b, language: baseLanguage(lang), businessType: string(businessType)}
}

func baseLanguage(lang string) string {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return fallbackLanguage
	}
	base, _ := tag.Base()
	return base.String()
}

// Get ищет поле: язык/тип, язык/default, en/тип, en/default.
func (p Phrases) Get(field string) string {
	for _, lang := range []string{p.language, fallbackLanguage} {
		sections := p.book.table[lang]
		if v := sections[p.businessType][field]; v != "" {
			return v
		}
		if v := sections[defaultSection][field]; v != "" {
			return v
		}
	}
	return field
}

// Format подставляет значения вида {name} в фразу.
func (p Phrases) Format(field string, vars map[string]string) string {
	s := p.Get(field)
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}

// Language возвращает выбранный базовый язык.
func (p Phrases) Language() string {
	return p.language
}
