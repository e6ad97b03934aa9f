package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseStore(t *testing.T) {
	tests := []struct {
		in   string
		want Store
		ok   bool
	}{
		{"sainsbury", Sainsburys, true},
		{"Sainsburys", Sainsburys, true},
		{"Sainsbury's", Sainsburys, true},
		{"SAINSBURY’S", Sainsburys, true},
		{" tesco ", Tesco, true},
		{"Asda", Asda, true},
		{"waitrose", Waitrose, true},
		{"lidl", StoreUnknown, false},
		{"", StoreUnknown, false},
	}

	for _, tt := range tests {
		got, ok := ParseStore(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStore(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStoreJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Store{"s": Sainsburys})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"s":"Sainsbury's"}` {
		t.Fatalf("got %s", b)
	}

	var out struct{ S Store }
	if err := json.Unmarshal([]byte(`{"S":"tesco"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.S != Tesco {
		t.Fatalf("got %v, want Tesco", out.S)
	}

	err = json.Unmarshal([]byte(`{"S":"lidl"}`), &out)
	if !errors.Is(err, ErrUnknownStore) {
		t.Fatalf("expected ErrUnknownStore, got %v", err)
	}
}

func TestComparisonSetTieBreaks(t *testing.T) {
	set := ComparisonSet{
		{Store: Sainsburys, Total: 1.10, DeliveryHours: 3},
		{Store: Tesco, Total: 1.05, DeliveryHours: 2},
		{Store: Asda, Total: 0.95, DeliveryHours: 4},
		{Store: Waitrose, Total: 1.25, DeliveryHours: 2},
	}

	cheap, _ := set.Cheapest()
	if cheap.Store != Asda {
		t.Errorf("cheapest = %v, want Asda", cheap.Store)
	}
	fast, _ := set.Fastest()
	if fast.Store != Tesco {
		t.Errorf("fastest = %v, want Tesco", fast.Store)
	}

	ranked := set.Ranked()
	if !ranked[2].Cheapest || ranked[1].Cheapest {
		t.Error("cheapest flag on wrong quote")
	}
	if !ranked[1].Fastest || ranked[3].Fastest {
		t.Error("fastest flag on wrong quote")
	}

	if _, ok := (ComparisonSet{}).Cheapest(); ok {
		t.Error("empty set has no cheapest quote")
	}
}

func TestRankedQuoteJSON(t *testing.T) {
	q := RankedQuote{
		StoreQuote: StoreQuote{Store: Tesco, Total: 1.05, DeliveryHours: 2,
			Items: []GroceryItem{{Name: "bread", Price: 1.05, Found: true}}},
		Fastest: true,
	}
	b, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields["store"] != "Tesco" || fields["deliveryTimeFormatted"] != "2 hours" || fields["fastest"] != true {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if _, ok := fields["notFoundItems"]; ok {
		t.Fatal("notFoundItems should be omitted when empty")
	}
}
