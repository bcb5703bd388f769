package event

import (
	"encoding/json"
	"fmt"
)

// The provider has renamed payload fields across API versions and wraps the
// order object differently per event type. Both variations are handled as
// data: containerKeys lists the wrapper objects to descend into, and the
// alias tables map every known historical field name onto the canonical one.
// A new provider rename is a one-line table change.

var orderContainerKeys = []string{"order", "order_created", "order_updated"}

var orderFieldAliases = map[string][]string{
	"id":           {"id", "order_id", "orderId"},
	"location_id":  {"location_id", "locationId"},
	"state":        {"state", "status"},
	"reference":    {"reference", "note"},
	"reference_id": {"reference_id", "referenceId"},
	"metadata":     {"metadata"},
	"line_items":   {"line_items", "lineItems", "itemizations"},
}

var lineItemFieldAliases = map[string][]string{
	"name":              {"name", "item_name"},
	"catalog_object_id": {"catalog_object_id", "catalogObjectId", "item_variation_id"},
	"quantity":          {"quantity"},
	"amount":            {"total_money", "gross_sales_money", "totalMoney"},
}

var paymentFieldAliases = map[string][]string{
	"id":          {"id", "payment_id", "paymentId"},
	"order_id":    {"order_id", "orderId"},
	"location_id": {"location_id", "locationId"},
	"status":      {"status", "state"},
	"amount":      {"amount_money", "total_money", "amountMoney"},
}

// NormalizeOrder maps a loosely-typed provider order payload into the
// canonical Order. The payload may be the order itself or one of the known
// wrapper objects around it.
func NormalizeOrder(raw json.RawMessage) (*Order, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	obj = unwrap(obj, orderContainerKeys)

	ord := &Order{
		ID:          pickString(obj, orderFieldAliases["id"]),
		LocationID:  pickString(obj, orderFieldAliases["location_id"]),
		State:       pickString(obj, orderFieldAliases["state"]),
		Reference:   pickString(obj, orderFieldAliases["reference"]),
		ReferenceID: pickString(obj, orderFieldAliases["reference_id"]),
		Metadata:    pickStringMap(obj, orderFieldAliases["metadata"]),
	}

	for _, rawItem := range pickSlice(obj, orderFieldAliases["line_items"]) {
		item, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}
		amountCents, currency := pickMoney(item, lineItemFieldAliases["amount"])
		ord.LineItems = append(ord.LineItems, LineItem{
			Name:            pickString(item, lineItemFieldAliases["name"]),
			CatalogObjectID: pickString(item, lineItemFieldAliases["catalog_object_id"]),
			Quantity:        pickString(item, lineItemFieldAliases["quantity"]),
			AmountCents:     amountCents,
			Currency:        currency,
		})
	}

	return ord, nil
}

// NormalizePayment maps a loosely-typed provider payment payload into the
// canonical Payment.
func NormalizePayment(raw json.RawMessage) (*Payment, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	obj = unwrap(obj, []string{"payment"})

	amountCents, currency := pickMoney(obj, paymentFieldAliases["amount"])

	return &Payment{
		ID:          pickString(obj, paymentFieldAliases["id"]),
		OrderID:     pickString(obj, paymentFieldAliases["order_id"]),
		LocationID:  pickString(obj, paymentFieldAliases["location_id"]),
		Status:      pickString(obj, paymentFieldAliases["status"]),
		AmountCents: amountCents,
		Currency:    currency,
	}, nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode event object: %w", err)
	}

	return obj, nil
}

func unwrap(obj map[string]any, containers []string) map[string]any {
	for _, key := range containers {
		if inner, ok := obj[key].(map[string]any); ok {
			return inner
		}
	}

	return obj
}

func pickString(obj map[string]any, aliases []string) string {
	for _, key := range aliases {
		if v, ok := obj[key].(string); ok && v != "" {
			return v
		}
	}

	return ""
}

func pickSlice(obj map[string]any, aliases []string) []any {
	for _, key := range aliases {
		if v, ok := obj[key].([]any); ok {
			return v
		}
	}

	return nil
}

func pickStringMap(obj map[string]any, aliases []string) map[string]string {
	for _, key := range aliases {
		raw, ok := obj[key].(map[string]any)
		if !ok {
			continue
		}
		m := make(map[string]string, len(raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				m[k] = s
			}
		}

		return m
	}

	return nil
}

// pickMoney reads a provider money object {"amount": <number>, "currency": <string>}.
func pickMoney(obj map[string]any, aliases []string) (int64, string) {
	for _, key := range aliases {
		money, ok := obj[key].(map[string]any)
		if !ok {
			continue
		}
		amount, _ := money["amount"].(float64)
		currency, _ := money["currency"].(string)

		return int64(amount), currency
	}

	return 0, ""
}
