package checkout

import (
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProcessAddressRequired(t *testing.T) {
	p := NewProcessor()

	res := p.Process(Request{Store: domain.Tesco, Items: []string{"bread"}, Total: 1.05})
	if res.Status != StatusAddressRequired {
		t.Fatalf("status = %q, want %q", res.Status, StatusAddressRequired)
	}
	if res.OrderNumber != "" || res.Order != nil {
		t.Fatal("no order may be created without an address")
	}
	if res.ItemCount != 1 || res.Store != domain.Tesco || res.Total != 1.05 {
		t.Fatalf("unexpected summary: %+v", res)
	}
	if !strings.Contains(res.Message, "delivery address") {
		t.Fatalf("message should ask for the address: %q", res.Message)
	}
}

func TestProcessConfirmed(t *testing.T) {
	at := time.UnixMilli(1_700_012_345_678)
	p := NewProcessor(WithClock(fixedClock(at)))

	res := p.Process(Request{Store: domain.Tesco, Items: []string{"bread"}, Total: 1.05, Address: "1 High St"})
	if !res.Confirmed() {
		t.Fatalf("status = %q, want confirmed", res.Status)
	}
	if res.OrderNumber != "ORD-12345678" {
		t.Fatalf("order number = %q", res.OrderNumber)
	}
	if res.Order == nil || res.Order.OrderNumber != res.OrderNumber || res.Order.Address != "1 High St" {
		t.Fatalf("unexpected order: %+v", res.Order)
	}
	want := "Thank you for your order! Your order #ORD-12345678 has been confirmed. Your groceries will be delivered to 1 High St from Tesco."
	if res.Message != want {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestProcessBlankAddressNeverConfirms(t *testing.T) {
	p := NewProcessor()
	for _, addr := range []string{"", " ", "\t\n", "   \r "} {
		res := p.Process(Request{Store: domain.Asda, Items: []string{"milk"}, Total: 1, Address: addr})
		if res.Confirmed() {
			t.Errorf("address %q was confirmed", addr)
		}
	}
}

func TestProcessAcceptsAnyNonBlankAddress(t *testing.T) {
	p := NewProcessor()
	res := p.Process(Request{Store: domain.Asda, Address: "x"})
	if !res.Confirmed() {
		t.Fatal("a short address is accepted by the processor")
	}
}

func TestOrderNumbersAreUnique(t *testing.T) {
	p := NewProcessor(WithClock(fixedClock(time.UnixMilli(99_999_999))))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := p.NextOrderNumber()
		if seen[n] {
			t.Fatalf("duplicate order number %s", n)
		}
		if len(n) != len("ORD-00000000") {
			t.Fatalf("malformed order number %q", n)
		}
		seen[n] = true
	}
}

func TestOrderIsDetachedFromRequest(t *testing.T) {
	items := []string{"bread"}
	res := NewProcessor().Process(Request{Store: domain.Tesco, Items: items, Address: "1 High St"})
	items[0] = "changed"
	if res.Order.Items[0] != "bread" {
		t.Fatal("order shares the request's item slice")
	}
}
