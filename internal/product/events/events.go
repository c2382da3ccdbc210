// Package events defines the product lifecycle events published to the message broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/productstore/internal/product/model"
	"go.opentelemetry.io/otel/propagation"
)

const (
	ProductsCreatedSubject = "products.created"
	ProductsUpdatedSubject = "products.updated"
	ProductsDeletedSubject = "products.deleted"
)

// Subjects lists every subject the product stream must capture.
var Subjects = []string{ProductsCreatedSubject, ProductsUpdatedSubject, ProductsDeletedSubject}

// ProductEvent reports a change to a single product. Product is the serialized record.
type ProductEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID  int64                  `json:"product_id"`
	Product    map[string]any         `json:"product"`
	OccurredAt time.Time              `json:"occurred_at"`

	subject string
}

func newEvent(subject string, carrier propagation.MapCarrier, p *model.Product) ProductEvent {
	return ProductEvent{
		Carrier:    carrier,
		ProductID:  p.ID,
		Product:    p.Serialize(),
		OccurredAt: time.Now().UTC(),
		subject:    subject,
	}
}

func Created(carrier propagation.MapCarrier, p *model.Product) ProductEvent {
	return newEvent(ProductsCreatedSubject, carrier, p)
}

func Updated(carrier propagation.MapCarrier, p *model.Product) ProductEvent {
	return newEvent(ProductsUpdatedSubject, carrier, p)
}

func Deleted(carrier propagation.MapCarrier, p *model.Product) ProductEvent {
	return newEvent(ProductsDeletedSubject, carrier, p)
}

func (e ProductEvent) Subject() string {
	return e.subject
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
