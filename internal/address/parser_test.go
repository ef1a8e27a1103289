package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFreeText_CityAndCountryCode(t *testing.T) {
	addr := ParseFreeText("Rruga Myslym Shyri, Tirana, AL", nil, nil)

	assert.Equal(t, "Rruga Myslym Shyri", addr.Street)
	assert.Equal(t, "Tirana", addr.City)
	assert.Equal(t, "AL", addr.Country)
	assert.Equal(t, "", addr.Additional)
	assert.Equal(t, "", addr.ZipCode)
}

func TestParseFreeText_SingleSegment(t *testing.T) {
	addr := ParseFreeText("  Rruga e Kavajës 12  ", nil, nil)

	assert.Equal(t, "Rruga e Kavajës 12", addr.Street)
	assert.Empty(t, addr.City)
	assert.Empty(t, addr.Country)
	assert.Empty(t, addr.ZipCode)
	assert.Empty(t, addr.Additional)
}

func TestParseFreeText_PostalCodeStrippedFromCity(t *testing.T) {
	addr := ParseFreeText("Ermou 5, Athens 105 63, Greece", nil, nil)

	assert.Equal(t, "Ermou 5", addr.Street)
	assert.Equal(t, "Athens", addr.City)
	assert.Equal(t, "105 63", addr.ZipCode)
	assert.Equal(t, "GR", addr.Country)
	assert.Equal(t, "", addr.Additional)
}

func TestParseFreeText_AdditionalFromCountrySegment(t *testing.T) {
	addr := ParseFreeText("Rruga Durresit 10, Tirana 1001, Kati 3 Albania", nil, nil)

	assert.Equal(t, "Tirana", addr.City)
	assert.Equal(t, "1001", addr.ZipCode)
	assert.Equal(t, "AL", addr.Country)
	assert.Equal(t, "Kati 3", addr.Additional)
}

func TestParseFreeText_UnknownCountryDefaultsToUS(t *testing.T) {
	addr := ParseFreeText("Calle 50, Panama City, Panama", nil, nil)

	assert.Equal(t, DefaultCountry, addr.Country)
	assert.Equal(t, "Panama", addr.Additional)
}

func TestParseFreeText_MiddleSegmentsKept(t *testing.T) {
	addr := ParseFreeText("Via Roma 1, Milano, Scala B, IT", nil, nil)

	assert.Equal(t, "Milano", addr.City)
	assert.Equal(t, "IT", addr.Country)
	assert.Equal(t, "Scala B", addr.Additional)
}

func TestParseFreeText_CarriesCoordinates(t *testing.T) {
	lat, lng := 41.33, 19.82
	addr := ParseFreeText("Rruga Myslym Shyri, Tirana, AL", &lat, &lng)

	assert.Equal(t, &lat, addr.Latitude)
	assert.Equal(t, &lng, addr.Longitude)
}

func TestParseStructured_SplitsOnCity(t *testing.T) {
	addr := ParseStructured("Rruga Myslym Shyri 20, Ap. 4, Tirana, Shqipëri", nil, nil, Hints{
		City:        "Tirana",
		CountryCode: "al",
		PostalCode:  "1001",
	})

	assert.Equal(t, "Rruga Myslym Shyri 20", addr.Street)
	assert.Equal(t, "Ap. 4", addr.Additional)
	assert.Equal(t, "Tirana", addr.City)
	assert.Equal(t, "AL", addr.Country)
	assert.Equal(t, "1001", addr.ZipCode)
}

func TestParseStructured_FallsBackToCountryCode(t *testing.T) {
	addr := ParseStructured("Bulevardi Bajram Curri 3, AL", nil, nil, Hints{
		City:        "Durrës",
		CountryCode: "AL",
	})

	assert.Equal(t, "Bulevardi Bajram Curri 3", addr.Street)
	assert.Equal(t, "", addr.Additional)
	assert.Equal(t, "Durrës", addr.City)
}

func TestParse_PicksModeByHints(t *testing.T) {
	structured := Parse("Main St 1, Flat 2, Skopje", nil, nil, Hints{City: "Skopje", CountryCode: "MK"})
	assert.Equal(t, "Flat 2", structured.Additional)
	assert.Equal(t, "MK", structured.Country)

	free := Parse("Main St 1, Flat 2, Skopje", nil, nil, Hints{})
	assert.Equal(t, "Flat 2", free.City)
	assert.Equal(t, DefaultCountry, free.Country)
}

func TestParseFreeText_TwoSegmentsTrailingCountry(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantCity    string
		wantCountry string
	}{
		{"код страны", "Main St, Tirana AL", "Tirana", "AL"},
		{"название страны", "Ermou 5, Athens 105 63 Greece", "Athens", "GR"},
		{"без страны", "Rruga e Kavajes 1, Tirana", "Tirana", DefaultCountry},
		{"только страна", "Main St, AL", "AL", DefaultCountry},
		{"код не в конце", "Main St, AL Tirana", "AL Tirana", DefaultCountry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := ParseFreeText(tt.raw, nil, nil)
			assert.Equal(t, tt.wantCity, addr.City)
			assert.Equal(t, tt.wantCountry, addr.Country)
			assert.Empty(t, addr.Additional)
		})
	}
}

// Символы, у которых при смене регистра меняется длина в байтах:
// U+023A (2 -> 3 байта) и U+0130 (2 -> 1 байт).
func TestParseFreeText_NonASCIIText(t *testing.T) {
	addr := ParseFreeText("Rruga Kavajes 5, Tirana, ȺȺȺȺȺȺȺȺȺȺ Albania", nil, nil)
	assert.Equal(t, "Rruga Kavajes 5", addr.Street)
	assert.Equal(t, "Tirana", addr.City)
	assert.Equal(t, "AL", addr.Country)
	assert.Equal(t, "ȺȺȺȺȺȺȺȺȺȺ", addr.Additional)

	addr = ParseFreeText("Rruga Kavajes 5, Tirana, İİİİ Pallati Albania", nil, nil)
	assert.Equal(t, "AL", addr.Country)
	assert.Equal(t, "İİİİ Pallati", addr.Additional)

	addr = ParseFreeText("Rruga Kavajes 5, Tirana, Kati 2 ALBANIA", nil, nil)
	assert.Equal(t, "AL", addr.Country)
	assert.Equal(t, "Kati 2", addr.Additional)
}

func TestParseStructured_NonASCIIText(t *testing.T) {
	hints := Hints{City: "Ohrid", CountryCode: "MK"}

	addr := ParseStructured("ȺȺȺȺȺȺȺȺȺȺ, Ohrid", nil, nil, hints)
	assert.Equal(t, "ȺȺȺȺȺȺȺȺȺȺ", addr.Street)
	assert.Equal(t, "", addr.Additional)

	addr = ParseStructured("İİİİİİ Sokak, Daire 2, Ohrid", nil, nil, hints)
	assert.Equal(t, "İİİİİİ Sokak", addr.Street)
	assert.Equal(t, "Daire 2", addr.Additional)

	addr = ParseStructured("Rruga Kej 7, Kati 1, OHRID", nil, nil, hints)
	assert.Equal(t, "Rruga Kej 7", addr.Street)
	assert.Equal(t, "Kati 1", addr.Additional)
}
