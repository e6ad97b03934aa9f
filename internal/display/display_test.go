package display

import (
	"strings"
	"testing"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

func breadQuotes() domain.ComparisonSet {
	return domain.ComparisonSet{
		{Store: domain.Tesco, Total: 1.05, DeliveryHours: 2,
			Items: []domain.GroceryItem{{Name: "bread", Price: 1.05, Found: true}}},
		{Store: domain.Asda, Total: 0.95, DeliveryHours: 4,
			Items: []domain.GroceryItem{{Name: "bread", Price: 0.95, Found: true}}},
		{Store: domain.Waitrose, Total: 2.50, DeliveryHours: 2,
			Items: []domain.GroceryItem{{Name: "caviar", Price: 2.50}}},
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "£0.00"},
		{0.95, "£0.95"},
		{4.3, "£4.30"},
		{12.5, "£12.50"},
	}
	for _, tt := range tests {
		if got := Money(tt.in); got != tt.want {
			t.Errorf("Money(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderComparisons(t *testing.T) {
	out := RenderComparisons(breadQuotes(), 200)

	for _, want := range []string{
		"1. Tesco", "2. Asda", "3. Waitrose",
		"£1.05", "£0.95", "£2.50",
		"delivery 2 hours", "delivery 4 hours",
		"1/1 priced", "0/1 priced",
		"cheapest", "fastest",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("comparisons missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "cheapest"); got != 1 {
		t.Errorf("cheapest badge shown %d times, want 1", got)
	}
	// Tesco and Waitrose tie on speed; only the first is fastest.
	if got := strings.Count(out, "fastest"); got != 1 {
		t.Errorf("fastest badge shown %d times, want 1", got)
	}
}

func TestRenderComparisonsLayout(t *testing.T) {
	set := breadQuotes()

	wide := RenderComparisons(set, 200)
	narrow := RenderComparisons(set, 40)

	// Side by side puts every store on the card's first content line.
	firstLines := strings.Split(wide, "\n")
	if !strings.Contains(firstLines[1], "Tesco") || !strings.Contains(firstLines[1], "Waitrose") {
		t.Errorf("wide layout not horizontal:\n%s", wide)
	}
	if strings.Count(narrow, "\n") <= strings.Count(wide, "\n") {
		t.Errorf("narrow layout should stack cards:\n%s", narrow)
	}
}

func TestStatusParts(t *testing.T) {
	tests := []struct {
		name string
		conv *domain.Conversation
		want []string
	}{
		{"none", nil, nil},
		{"empty", &domain.Conversation{}, nil},
		{
			"browsing",
			&domain.Conversation{Basket: []string{"bread"}, Comparisons: breadQuotes()},
			[]string{"Basket: 1 item(s)", "Cheapest: Asda £0.95"},
		},
		{
			"selected",
			&domain.Conversation{
				Basket:        []string{"bread", "milk"},
				SelectedStore: domain.Tesco,
				SelectedTotal: 2.15,
				DeliveryHours: 2,
				Stage:         domain.StageAwaitingAddress,
			},
			[]string{"Basket: 2 item(s)", "Store: Tesco £2.15 · 2 hours", "waiting for address"},
		},
		{
			"confirmed",
			&domain.Conversation{
				Stage: domain.StageConfirmed,
				Order: &domain.Order{OrderNumber: "ORD-12345678"},
			},
			[]string{"Order ORD-12345678 confirmed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statusParts(tt.conv)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d parts %q, want %q", len(got), got, tt.want)
			}
			for i := range got {
				if !strings.Contains(got[i], tt.want[i]) {
					t.Errorf("part %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTitleStr(t *testing.T) {
	tests := []struct {
		conv *domain.Conversation
		want string
	}{
		{nil, "OttoShop"},
		{&domain.Conversation{}, "OttoShop"},
		{&domain.Conversation{Basket: []string{"bread", "milk"}}, "OttoShop · 2 item(s)"},
		{&domain.Conversation{SelectedStore: domain.Asda, SelectedTotal: 3.95}, "OttoShop · Asda £3.95"},
		{&domain.Conversation{Order: &domain.Order{OrderNumber: "ORD-1"}}, "OttoShop · order ORD-1"},
	}
	for _, tt := range tests {
		if got := titleStr(tt.conv); got != tt.want {
			t.Errorf("titleStr = %q, want %q", got, tt.want)
		}
	}
}

func TestRenderOrder(t *testing.T) {
	out := RenderOrder(&domain.Order{
		OrderNumber: "ORD-12345678",
		Store:       domain.Tesco,
		Items:       []string{"bread", "milk", "eggs"},
		Total:       4.30,
		Address:     "1 High Street, London",
	})

	for _, want := range []string{"Order ORD-12345678 confirmed", "Tesco · 3 item(s) · £4.30", "Delivering to 1 High Street, London"} {
		if !strings.Contains(out, want) {
			t.Errorf("order box missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBanner(t *testing.T) {
	out := renderBanner(120)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if !strings.Contains(out, tagline) {
		t.Fatalf("banner missing tagline:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "    ") {
		t.Errorf("banner not centred at width 120: %q", lines[0])
	}

	if got := centre(10, 44); got != "" {
		t.Errorf("centre(10, 44) = %q, want no padding", got)
	}
	if got := centre(120, 44); len(got) != 38 {
		t.Errorf("centre(120, 44) gave %d spaces, want 38", len(got))
	}
}
