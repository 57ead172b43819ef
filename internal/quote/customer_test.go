package quote

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeCustomerIncomingWins(t *testing.T) {
	existing := Customer{Company: "Old Co", Name: "Old Name", Phone: "111"}
	incoming := Customer{Company: "New Co", Email: "new@example.com"}

	got := MergeCustomer(existing, incoming)
	require.Equal(t, "New Co", got.Company)
	require.Equal(t, "new@example.com", got.Email)
	// Incoming empties never erase existing data.
	require.Equal(t, "Old Name", got.Name)
	require.Equal(t, "111", got.Phone)
}

func TestMergeCustomerAddressBlocks(t *testing.T) {
	existing := Customer{Shipping: Address{Street: "1 Old St", City: "Oldtown"}}
	incoming := Customer{
		Shipping: Address{Street: "2 New St", State: "CA", Zip: "95076"},
		Billing:  Address{Street: "2 New St"},
	}
	got := MergeCustomer(existing, incoming)
	require.Equal(t, Address{Street: "2 New St", City: "Oldtown", State: "CA", Zip: "95076"}, got.Shipping)
	require.Equal(t, Address{Street: "2 New St"}, got.Billing)
}
