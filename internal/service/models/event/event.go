package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Event types emitted by the payment provider that the engine routes on.
const (
	TypeOrderCreated     = "order.created"
	TypeOrderUpdated     = "order.updated"
	TypePaymentCreated   = "payment.created"
	TypeCatalogUpdated   = "catalog.version.updated"
	TypeInventoryUpdated = "inventory.count.updated"
)

var ErrMissingType = errors.New("event payload has no type discriminant")

// Envelope is the top-level shape of every provider webhook delivery.
type Envelope struct {
	EventID string `json:"event_id"`
	Type    string `json:"type" validate:"required"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`

	// Raw keeps the verbatim delivery for audit records.
	Raw []byte `json:"-"`
}

// Validate validates the envelope.
func (e *Envelope) Validate() error {
	return validator.New().Struct(e)
}

// ParseEnvelope decodes a raw webhook body into an Envelope.
// The raw body is retained verbatim so audit records never depend on
// re-serialization.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse webhook envelope: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingType, err)
	}
	env.Raw = body

	return &env, nil
}

// Order is the normalized view of a provider order that resolution and
// closure logic operate on, independent of provider API version.
type Order struct {
	ID          string
	LocationID  string
	State       string
	Reference   string
	ReferenceID string
	Metadata    map[string]string
	LineItems   []LineItem
}

// LineItem is a normalized order line with its catalog references.
type LineItem struct {
	Name            string
	CatalogObjectID string
	Quantity        string
	AmountCents     int64
	Currency        string
}

// CatalogRefs collects every catalog object id referenced by the order's
// line items, skipping empties.
func (o *Order) CatalogRefs() []string {
	refs := make([]string, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		if item.CatalogObjectID != "" {
			refs = append(refs, item.CatalogObjectID)
		}
	}

	return refs
}

// Completed reports whether the order state is terminal on the provider side.
func (o *Order) Completed() bool {
	return o.State == "COMPLETED"
}

// Payment is the normalized view of a provider payment object.
type Payment struct {
	ID          string
	OrderID     string
	LocationID  string
	AmountCents int64
	Currency    string
	Status      string
}
