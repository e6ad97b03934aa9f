package extract

import "github.com/hammamikhairi/ottoshop/internal/domain"

// basketItems reads the item names a basket or parse tool reported. A
// top-level array payload contributes the items of every entry.
func basketItems(data any, merged map[string]any) []string {
	var out []string

	if arr, ok := asSlice(data); ok {
		for _, entry := range arr {
			if items, ok := asSlice(field(entry, "items")); ok {
				out = appendNames(out, items)
				continue
			}
			if name, ok := str(field(entry, "item")); ok {
				out = append(out, name)
			}
		}
		return out
	}

	items, _ := asSlice(merged["items"])
	return appendNames(out, items)
}

func appendNames(out []string, items []any) []string {
	for _, it := range items {
		if s, ok := str(it); ok {
			out = append(out, s)
			continue
		}
		if s, ok := str(field(it, "item")); ok {
			out = append(out, s)
		}
	}
	return out
}

// storeSelection reports a store with a non-zero total on the merged
// object.
func storeSelection(merged map[string]any) *StoreSelection {
	name, ok := str(merged["store"])
	if !ok {
		return nil
	}
	store, ok := domain.ParseStore(name)
	if !ok {
		return nil
	}
	total, ok := number(merged["total"])
	if !ok || total == 0 {
		return nil
	}
	return &StoreSelection{Store: store, Total: domain.RoundPennies(total)}
}

// checkoutInfo reports a checkout tool status, if one was returned.
func checkoutInfo(merged map[string]any) *CheckoutInfo {
	status, _ := str(merged["status"])
	switch status {
	case "address_required", "confirmed":
	default:
		return nil
	}
	info := &CheckoutInfo{Status: status}
	info.OrderNumber, _ = str(merged["orderNumber"])
	info.Address, _ = str(merged["address"])
	return info
}
