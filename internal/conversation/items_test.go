package conversation

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseItems(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"bread, milk. eggs", []string{"bread", "milk", "eggs"}},
		{"Bread Milk", []string{"Bread", "Milk"}},
		{"  ,, . \t\n", []string{}},
		{"", []string{}},
		{"apples,,bananas...Cherries", []string{"apples", "bananas", "Cherries"}},
	}

	for _, tt := range tests {
		got := ParseItems(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseItems(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}
}

func TestParseItemsNoEmptyTokens(t *testing.T) {
	inputs := []string{"a,b", " a . b ", "milk,\n\neggs", ". leading", "trailing ,"}
	for _, in := range inputs {
		for _, tok := range ParseItems(in) {
			if strings.TrimSpace(tok) == "" {
				t.Errorf("ParseItems(%q) produced an empty token", in)
			}
		}
	}
}

func TestItemsMessage(t *testing.T) {
	if got := ItemsMessage([]string{"bread", "milk"}); got != "Found 2 item(s): bread, milk" {
		t.Fatalf("got %q", got)
	}
}
