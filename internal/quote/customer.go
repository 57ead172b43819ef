package quote

// MergeCustomer overlays incoming onto existing field by field. A non-empty
// incoming value replaces the existing one; incoming empties never erase data
// the operator already has on the form.
func MergeCustomer(existing, incoming Customer) Customer {
	out := existing
	out.Company = orKeep(incoming.Company, existing.Company)
	out.Name = orKeep(incoming.Name, existing.Name)
	out.Email = orKeep(incoming.Email, existing.Email)
	out.Phone = orKeep(incoming.Phone, existing.Phone)
	out.Shipping = mergeAddress(existing.Shipping, incoming.Shipping)
	out.Billing = mergeAddress(existing.Billing, incoming.Billing)
	return out
}

func mergeAddress(existing, incoming Address) Address {
	return Address{
		Street: orKeep(incoming.Street, existing.Street),
		City:   orKeep(incoming.City, existing.City),
		State:  orKeep(incoming.State, existing.State),
		Zip:    orKeep(incoming.Zip, existing.Zip),
	}
}

func orKeep(incoming, existing string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}
