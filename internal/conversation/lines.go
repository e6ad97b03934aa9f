package conversation

// lines.go keeps every fixed string the shopping REPL says. Edit here to
// change the assistant's voice.

import (
	"fmt"
	"math/rand"
	"strings"
)

// ── Greeting / Global ────────────────────────────────────────────

func LineWelcome() string {
	return "Hello. What do you need from the shops today?"
}

func LineBye() string {
	return "Bye."
}

func LineHelp() string {
	return strings.Join([]string{
		"Tell me what you need, e.g. \"bread, milk and eggs\", and I'll compare four stores.",
		"  add <items>       add to the basket",
		"  remove <items>    take out of the basket",
		"  <store> | 1-4     choose a store (also \"cheapest\" or \"fastest\")",
		"  ok                check out with the chosen store",
		"  basket, compare   show the basket or the prices again",
		"  new               start a new order",
		"  quit              leave",
	}, "\n")
}

func LineUnknown(input string) string {
	return fmt.Sprintf("Didn't catch that: %s.", input)
}

// ── Basket ───────────────────────────────────────────────────────

func LineNothingToAdd() string {
	return "Tell me which items, e.g. \"add bread\"."
}

func LineNoPrices() string {
	return "No prices yet. Tell me what you need first."
}

// ── Store and checkout ───────────────────────────────────────────

func LineChooseStoreFirst() string {
	return "Choose a store first, e.g. \"Tesco\" or \"cheapest\"."
}

func LineStoreChosen(store string, total float64, hours int) string {
	return fmt.Sprintf("%s it is: £%.2f, delivery in %d hour(s).", store, total, hours)
}

func LineAskAddress() string {
	return "Where should it be delivered? Type your address."
}

func LineOrderDone(number string) string {
	return fmt.Sprintf("Order %s is on its way. Say \"new\" to shop again.", number)
}

func LineOrderAlreadyDone() string {
	return "This order is already placed. Say \"new\" to start another."
}

func LineAgentDown() string {
	return "The shopping assistant isn't answering; carrying on without it."
}

// ── Thinking fillers ─────────────────────────────────────────────
// Shown while waiting for the agent. Randomised to avoid repetition.

var thinkingPrices = []string{
	"Checking prices.",
	"Looking at the shelves.",
	"Comparing stores.",
	"One moment, pricing that up.",
	"Let me see who's cheapest.",
	"Hang on, adding it up.",
}

var thinkingCheckout = []string{
	"Placing your order.",
	"Sending that to the store.",
	"One moment, booking delivery.",
	"Sorting out the checkout.",
}

// LineThinkingPrices returns a random filler for a pricing turn.
func LineThinkingPrices() string {
	return thinkingPrices[rand.Intn(len(thinkingPrices))]
}

// LineThinkingCheckout returns a random filler for a checkout call.
func LineThinkingCheckout() string {
	return thinkingCheckout[rand.Intn(len(thinkingCheckout))]
}
