package crm

import (
	"strings"

	"github.com/dgassoc/quoting-api/internal/address"
	"github.com/dgassoc/quoting-api/internal/quote"
)

// composeStreet builds a street line from a record's address components. A
// full street field wins; otherwise the number and route are joined. A
// subpremise (suite or unit) is appended when present.
func composeStreet(r Record, prefix string) string {
	street := r.String(prefix + "_street")
	if street == "" {
		num := r.String(prefix + "_street_number")
		route := r.String(prefix + "_route")
		street = strings.TrimSpace(num + " " + route)
	}
	if sub := r.String(prefix + "_subpremise"); sub != "" && street != "" {
		street += ", " + sub
	}
	return street
}

// resolveAddress assembles a postal address from a record, trying structured
// components first and falling back to parsing the single formatted line for
// whichever fields are still missing.
func resolveAddress(r Record, prefix string) quote.Address {
	addr := quote.Address{
		Street: composeStreet(r, prefix),
		City:   r.String(prefix + "_locality"),
		State:  r.String(prefix + "_admin_area_level_1"),
		Zip:    r.String(prefix + "_postal_code"),
	}

	// Some records carry flat aliases instead of the google-style components.
	if addr.City == "" {
		addr.City = r.String(prefix + "_city")
	}
	if addr.State == "" {
		addr.State = r.String(prefix + "_state")
	}
	if addr.Zip == "" {
		addr.Zip = r.String(prefix + "_zip")
	}

	if addr.Street != "" && addr.City != "" && addr.State != "" && addr.Zip != "" {
		return addr
	}

	formatted := r.String(prefix + "_formatted_address")
	if formatted == "" {
		formatted = r.String(prefix)
	}
	if formatted == "" {
		return addr
	}

	parsed := address.Parse(formatted)
	if addr.Street == "" {
		addr.Street = parsed.Street
	}
	if addr.City == "" {
		addr.City = parsed.City
	}
	if addr.State == "" {
		addr.State = parsed.State
	}
	if addr.Zip == "" {
		addr.Zip = parsed.Postal
	}
	return addr
}

// MapPersonToCustomer projects a person record, optionally backed by its
// organization, onto quote customer fields. Person fields win; the
// organization fills whatever the person leaves blank. Billing starts out
// identical to shipping.
func MapPersonToCustomer(person, org Record) quote.Customer {
	c := quote.Customer{
		Name:  person.String("name"),
		Email: person.FirstValue("email"),
		Phone: person.FirstValue("phone"),
	}

	if c.Email == "" {
		c.Email = person.String("email")
	}
	if c.Phone == "" {
		c.Phone = person.String("phone")
	}

	if m, ok := person["org_id"].(map[string]any); ok {
		c.Company = Clean(m["name"])
	}
	if c.Company == "" {
		c.Company = org.String("name")
	}

	ship := resolveAddress(person, "postal_address")
	if !hasAny(ship) {
		ship = resolveAddress(person, "address")
	}
	if org != nil {
		orgAddr := resolveAddress(org, "address")
		if ship.Street == "" {
			ship.Street = orgAddr.Street
		}
		if ship.City == "" {
			ship.City = orgAddr.City
		}
		if ship.State == "" {
			ship.State = orgAddr.State
		}
		if ship.Zip == "" {
			ship.Zip = orgAddr.Zip
		}
	}

	c.Shipping = ship
	c.Billing = ship
	return c
}

func hasAny(a quote.Address) bool {
	return a.Street != "" || a.City != "" || a.State != "" || a.Zip != ""
}
