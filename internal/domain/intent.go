package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentItems              // a list of groceries to price
	IntentAddItems
	IntentRemoveItems
	IntentSelectStore
	IntentConfirm // "ok": move on to address collection
	IntentAddress
	IntentShowBasket
	IntentCompare // show the current comparison again
	IntentNewOrder
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentItems:
		return "items"
	case IntentAddItems:
		return "add_items"
	case IntentRemoveItems:
		return "remove_items"
	case IntentSelectStore:
		return "select_store"
	case IntentConfirm:
		return "confirm"
	case IntentAddress:
		return "address"
	case IntentShowBasket:
		return "show_basket"
	case IntentCompare:
		return "compare"
	case IntentNewOrder:
		return "new_order"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // remaining text, e.g. the items to add or the store name
}
