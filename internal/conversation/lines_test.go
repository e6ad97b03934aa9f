package conversation

import (
	"strings"
	"testing"
)

func TestFillersComeFromTheirLists(t *testing.T) {
	for i := 0; i < 20; i++ {
		if s := LineThinkingPrices(); !contains(thinkingPrices, s) {
			t.Fatalf("LineThinkingPrices returned %q", s)
		}
		if s := LineThinkingCheckout(); !contains(thinkingCheckout, s) {
			t.Fatalf("LineThinkingCheckout returned %q", s)
		}
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{LineStoreChosen("Tesco", 4.3, 2), "Tesco it is: £4.30, delivery in 2 hour(s)."},
		{LineOrderDone("ORD-12345678"), "Order ORD-12345678 is on its way. Say \"new\" to shop again."},
		{LineUnknown("blah"), "Didn't catch that: blah."},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	if help := LineHelp(); !strings.Contains(help, "cheapest") || !strings.Contains(help, "quit") {
		t.Errorf("help text incomplete:\n%s", help)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
