package pricing

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/ottoshop/internal/catalog"
	"github.com/hammamikhairi/ottoshop/internal/domain"
)

func TestPriceStoreBreadAtTesco(t *testing.T) {
	p := New(nil)

	got, err := p.PriceStore("tesco", []string{"bread"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &domain.StoreQuote{
		Store:         domain.Tesco,
		Items:         []domain.GroceryItem{{Name: "bread", Price: 1.05, Found: true}},
		Total:         1.05,
		DeliveryHours: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("quote mismatch (-want +got):\n%s", diff)
	}
}

func TestPriceStoreCatalogMiss(t *testing.T) {
	p := New(nil)

	got, err := p.PriceStore("Waitrose", []string{"Milk", "unicorn steak"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Items[0].Price != 1.30 || !got.Items[0].Found {
		t.Errorf("milk: got %+v", got.Items[0])
	}
	if got.Items[1].Price != domain.DefaultItemPrice || got.Items[1].Found {
		t.Errorf("miss: got %+v", got.Items[1])
	}
	if diff := cmp.Diff([]string{"unicorn steak"}, got.NotFound); diff != "" {
		t.Errorf("notFound (-want +got):\n%s", diff)
	}
	if got.Total != 3.80 {
		t.Errorf("total = %v, want 3.80", got.Total)
	}
}

func TestPriceStoreUnknown(t *testing.T) {
	p := New(nil)

	q, err := p.PriceStore("lidl", []string{"bread"})
	if q != nil {
		t.Fatal("expected no partial quote")
	}
	if !errors.Is(err, domain.ErrUnknownStore) {
		t.Fatalf("expected ErrUnknownStore, got %v", err)
	}
	var use *UnknownStoreError
	if !errors.As(err, &use) || use.Store != "lidl" {
		t.Fatalf("expected *UnknownStoreError for lidl, got %v", err)
	}
	if want := `invalid store "lidl", valid options: sainsbury, tesco, asda, waitrose`; err.Error() != want {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestTotalIsRoundedSum(t *testing.T) {
	p := New(nil)
	lists := [][]string{
		{},
		{"bread"},
		{"apples", "bananas", "milk", "eggs", "cheese", "chicken"},
		{"green beans", "green beans", "mystery", "BREAD"},
	}

	for _, items := range lists {
		for _, s := range domain.Stores {
			q := p.Quote(s, items)
			var sum float64
			for _, it := range q.Items {
				sum += it.Price
			}
			if q.Total != domain.RoundPennies(sum) {
				t.Errorf("%s %v: total %v != round(sum) %v", s, items, q.Total, domain.RoundPennies(sum))
			}
			if again := p.Quote(s, items); !cmp.Equal(q, again) {
				t.Errorf("%s %v: repeated quote differs", s, items)
			}
		}
	}
}

func TestCustomCatalog(t *testing.T) {
	c, err := catalog.Parse([]byte("items:\n  tea: {asda: 1, tesco: 2, sainsbury: 3, waitrose: 4}\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := New(c).Quote(domain.Sainsburys, []string{"Tea", "bread"})
	if q.Total != 5.50 {
		t.Fatalf("total = %v, want 5.50", q.Total)
	}
	if Message(q) != "Total at Sainsbury's: £5.50 (estimated price used for: bread)" {
		t.Fatalf("message = %q", Message(q))
	}
}
