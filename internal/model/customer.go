package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"
)

// Address - структурированный адрес клиента (колонка address_json).
type Address struct {
	Street     string   `json:"street"`
	Additional string   `json:"additional"`
	City       string   `json:"city"`
	ZipCode    string   `json:"zipCode"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"lat,omitempty"`
	Longitude  *float64 `json:"lng,omitempty"`
}

// Display собирает строку адреса из непустых street, additional, city, zipCode.
func (a Address) Display() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.Additional, a.City, a.ZipCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// Customer - клиент бизнеса. Идентичность определяется нормализованным телефоном.
type Customer struct {
	ID          string    `json:"id" db:"id"`
	BusinessID  string    `json:"businessId" db:"business_id"`
	Name        string    `json:"name" db:"name"`
	Phone       string    `json:"phone" db:"phone"`
	Email       *string   `json:"email,omitempty" db:"email"`
	Address     *string   `json:"address,omitempty" db:"address"`
	AddressJSON *Address  `json:"addressJson,omitempty" db:"address_json"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CustomerUpdate - набор изменяемых полей; nil означает "не менять".
type CustomerUpdate struct {
	Name        *string
	Email       *string
	Address     *string
	AddressJSON *Address
}

// IsEmpty сообщает, что обновлять нечего.
func (u CustomerUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Address == nil && u.AddressJSON == nil
}
