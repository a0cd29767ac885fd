// Package gateway declares the external collaborators the marketplace
// depends on but does not implement: the payment processor, the video
// asset store and the async event bus.
package gateway

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

// PaymentIntent is the processor's answer to an order request.
type PaymentIntent struct {
	OrderID string
	Amount  entity.Money
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount entity.Money, receipt string) (*PaymentIntent, error)
}

// AssetStore keeps uploaded lecture videos. Refs are opaque outside of it.
type AssetStore interface {
	StoreVideo(ctx context.Context, courseID, filename, contentType string, r io.Reader) (ref string, err error)
	ResolvePlayableURL(ctx context.Context, ref string, ttl time.Duration) (string, error)
}

// EventPublisher delivers JSON payloads to the async worker queue.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
