package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Value is the normalized representation of a phone entry. It is derived
// from the raw string on every change, never stored independently.
type Value struct {
	Country  string `json:"country"`        // ISO2, lowercase (e.g. "us")
	Raw      string `json:"raw"`            // as typed, international-ish
	National string `json:"national"`       // national formatting
	E164     string `json:"e164,omitempty"` // set only when the number is valid
}

// Parse derives the national and E.164 forms of raw for the given country.
// Invalid or unparseable input still yields a Value carrying the raw string;
// E164 stays empty unless the number is valid.
func Parse(raw, country string) Value {
	country = strings.ToLower(country)
	if country == "" {
		country = "us"
	}
	v := Value{Country: country, Raw: raw}
	if raw == "" {
		return v
	}
	num, err := phonenumbers.Parse(raw, strings.ToUpper(country))
	if err != nil {
		return v
	}
	v.National = phonenumbers.Format(num, phonenumbers.NATIONAL)
	if phonenumbers.IsValidNumber(num) {
		v.E164 = phonenumbers.Format(num, phonenumbers.E164)
	}
	return v
}
