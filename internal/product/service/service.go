// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abgdnv/productstore/internal/product/events"
	perrors "github.com/abgdnv/productstore/internal/product/errors"
	"github.com/abgdnv/productstore/internal/product/model"
	"github.com/abgdnv/productstore/internal/product/store"
	"github.com/abgdnv/productstore/pkg/messaging"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*model.Product, error)

	// List returns the products selected by filter, or every product if no filter is set.
	// An unknown category or unparsable price fails with a *model.DataValidationError.
	List(ctx context.Context, filter ListFilter) ([]model.Product, error)

	// Create decodes payload into a new product and stores it.
	// Returns a *model.DataValidationError if the payload is invalid.
	Create(ctx context.Context, payload map[string]any) (*model.Product, error)

	// Update replaces every mutable field of the product with the given ID from payload.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, payload map[string]any) (*model.Product, error)

	// DeleteByID removes a product by its ID. A missing product is not an error.
	DeleteByID(ctx context.Context, id int64) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository      store.ProductStore
	publisher       messaging.Publisher
	validate        *validator.Validate
	productsCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository.
// A nil publisher disables events.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	meter := otel.Meter("product-service")
	productsCounter, err := meter.Int64Counter("products_created", metric.WithDescription("Total number of created products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create products_created counter: %v", err))
	}
	return &Service{
		repository:      repo,
		publisher:       publisher,
		validate:        model.NewValidator(),
		productsCounter: productsCounter,
	}
}

// FindByID retrieves a product by its ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	return s.repository.Find(ctx, id)
}

// List resolves the filter precedence and runs the matching store query.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]model.Product, error) {
	kind := filter.Kind()
	if ignored := filter.Ignored(); len(ignored) > 0 {
		slog.DebugContext(ctx, "Ignoring lower-precedence list filters", "applied", kind.String(), "ignored", ignored)
	}

	switch kind {
	case FilterName:
		return s.repository.FindByName(ctx, filter.Name)
	case FilterCategory:
		category, err := model.ParseCategory(filter.Category)
		if err != nil {
			return nil, err
		}
		return s.repository.FindByCategory(ctx, category)
	case FilterAvailable:
		return s.repository.FindByAvailability(ctx, ParseAvailable(filter.Available))
	case FilterPrice:
		price, err := model.ParsePrice(filter.Price)
		if err != nil {
			return nil, err
		}
		return s.repository.FindByPrice(ctx, price)
	default:
		return s.repository.All(ctx)
	}
}

// Create decodes, validates and stores a new product, then publishes a products.created event.
func (s *Service) Create(ctx context.Context, payload map[string]any) (*model.Product, error) {
	var p model.Product
	if err := s.decode(&p, payload); err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, &p); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Created(carrierFrom(ctx), &p))
	// increase the number of created products
	s.productsCounter.Add(ctx, 1)

	return &p, nil
}

// Update applies payload to the stored product and publishes a products.updated event.
func (s *Service) Update(ctx context.Context, id int64, payload map[string]any) (*model.Product, error) {
	found, err := s.repository.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.decode(found, payload); err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, found); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Updated(carrierFrom(ctx), found))
	return found, nil
}

// DeleteByID deletes the product if it exists and publishes a products.deleted event.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	found, err := s.repository.Find(ctx, id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil
		}
		return err
	}
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.Deleted(carrierFrom(ctx), found))
	return nil
}

// decode applies payload to p and checks the field constraints. p keeps its ID.
func (s *Service) decode(p *model.Product, payload map[string]any) error {
	candidate := *p
	if err := candidate.Deserialize(payload); err != nil {
		return err
	}
	if err := model.Validate(s.validate, &candidate); err != nil {
		return err
	}
	*p = candidate
	return nil
}

// publish is best effort: a broker failure is logged and never fails the request.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

func carrierFrom(ctx context.Context) propagation.MapCarrier {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}
