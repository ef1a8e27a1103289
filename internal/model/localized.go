package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// LocalizedText - текст на нескольких языках (JSONB в БД), ключ - код языка.
type LocalizedText map[string]string

// Get возвращает перевод для языка, затем английский вариант.
func (t LocalizedText) Get(language string) string {
	if len(t) == 0 {
		return ""
	}
	if v, ok := t[strings.ToLower(language)]; ok && v != "" {
		return v
	}
	return t["en"]
}

func (t LocalizedText) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *LocalizedText) Scan(src interface{}) error {
	return scanJSON(src, t)
}

// scanJSON разбирает JSON/JSONB-колонку в dst.
func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("неподдерживаемый тип JSON-колонки: %T", src)
	}
}
