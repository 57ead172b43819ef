package address

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Parsed
	}{
		{
			name: "street city state zip",
			in:   "123 Main St, Anytown, CA 90210",
			want: Parsed{Street: "123 Main St", City: "Anytown", State: "CA", Postal: "90210"},
		},
		{
			name: "country suffix stripped",
			in:   "1 Disc Way, Watsonville, CA 95076, USA",
			want: Parsed{Street: "1 Disc Way", City: "Watsonville", State: "CA", Postal: "95076"},
		},
		{
			name: "country suffix lowercase",
			in:   "1 Disc Way, Watsonville, CA 95076, united states",
			want: Parsed{Street: "1 Disc Way", City: "Watsonville", State: "CA", Postal: "95076"},
		},
		{
			name: "zip plus four",
			in:   "123 Main St, Anytown, CA 90210-1234",
			want: Parsed{Street: "123 Main St", City: "Anytown", State: "CA", Postal: "90210-1234"},
		},
		{
			name: "multi segment street",
			in:   "1 Disc Way, Suite 200, Watsonville, CA 95076",
			want: Parsed{Street: "1 Disc Way, Suite 200", City: "Watsonville", State: "CA", Postal: "95076"},
		},
		{
			name: "city embedded in final segment",
			in:   "1 Disc Way, Suite 200, Watsonville CA 95076",
			want: Parsed{Street: "1 Disc Way, Suite 200", City: "Watsonville", State: "CA", Postal: "95076"},
		},
		{
			name: "no city or state",
			in:   "PO Box 9",
			want: Parsed{Street: "PO Box 9"},
		},
		{
			name: "state without zip falls back",
			in:   "1 Disc Way, Anytown, CA",
			want: Parsed{Street: "1 Disc Way", City: "Anytown, CA"},
		},
		{
			name: "two segments fall back to street and city",
			in:   "123 Main St, Anytown",
			want: Parsed{Street: "123 Main St", City: "Anytown"},
		},
		{
			name: "empty input",
			in:   "",
			want: Parsed{},
		},
		{
			name: "only commas",
			in:   ", ,",
			want: Parsed{},
		},
		{
			name: "lowercase state letters accepted",
			in:   "2 Basket Rd, Scotts Valley, ca 95066",
			want: Parsed{Street: "2 Basket Rd", City: "Scotts Valley", State: "ca", Postal: "95066"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.in)
			if got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsComplete(t *testing.T) {
	full := Parsed{Street: "1 Disc Way", City: "Watsonville", State: "CA", Postal: "95076"}
	if !full.IsComplete() {
		t.Fatal("expected fully populated address to be complete")
	}
	if (Parsed{Street: "1 Disc Way"}).IsComplete() {
		t.Fatal("expected partial address to be incomplete")
	}
}
