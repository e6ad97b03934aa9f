package pricing

import (
	"testing"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

func TestCompareBread(t *testing.T) {
	set := New(nil).Compare([]string{"bread"})

	if len(set) != len(domain.Stores) {
		t.Fatalf("got %d quotes, want %d", len(set), len(domain.Stores))
	}

	cheap, _ := set.Cheapest()
	if cheap.Store != domain.Asda || cheap.Total != 0.95 {
		t.Errorf("cheapest = %s £%.2f, want Asda £0.95", cheap.Store, cheap.Total)
	}
	fast, _ := set.Fastest()
	if fast.Store != domain.Tesco {
		t.Errorf("fastest = %s, want Tesco", fast.Store)
	}

	if got := CompareMessage(set); got != "Cheapest: Asda (£0.95) · Fastest: Tesco (2 hours)" {
		t.Errorf("message = %q", got)
	}
}

func TestCompareOneQuotePerStore(t *testing.T) {
	inputs := [][]string{nil, {"nothing we sell"}, {"milk", "eggs"}}

	for _, items := range inputs {
		set := New(nil).Compare(items)
		seen := map[domain.Store]bool{}
		for _, q := range set {
			if seen[q.Store] {
				t.Errorf("%v: duplicate quote for %s", items, q.Store)
			}
			seen[q.Store] = true
		}
		for _, s := range domain.Stores {
			if !seen[s] {
				t.Errorf("%v: missing quote for %s", items, s)
			}
		}
	}
}

func TestCompareAllMisses(t *testing.T) {
	set := New(nil).Compare([]string{"x", "y"})
	for _, q := range set {
		if q.Total != 5.00 {
			t.Errorf("%s total = %v, want 5.00", q.Store, q.Total)
		}
		if len(q.NotFound) != 2 {
			t.Errorf("%s notFound = %v", q.Store, q.NotFound)
		}
	}
}
