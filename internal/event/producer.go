package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solune/storefront/internal/domain"
	pkgkafka "github.com/solune/storefront/pkg/kafka"
)

// Kafka topics for storefront domain events.
const (
	TopicReviewCreated   = "storefront.review.created"
	TopicReviewUpdated   = "storefront.review.updated"
	TopicFavoriteAdded   = "storefront.favorite.added"
	TopicFavoriteRemoved = "storefront.favorite.removed"
)

// Aggregate type constant. Review and favorite events aggregate on the
// product so downstream consumers see all writes to one product in order.
const AggregateTypeProduct = "product"

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// ReviewEventData is the payload for review.created and review.updated events.
type ReviewEventData struct {
	ReviewID      string  `json:"reviewId"`
	ProductID     string  `json:"productId"`
	UserID        string  `json:"userId"`
	Rating        float64 `json:"rating"`
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// FavoriteEventData is the payload for favorite.added and favorite.removed events.
type FavoriteEventData struct {
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewWritten publishes review.created or review.updated depending
// on how the upsert resolved.
func (p *Producer) PublishReviewWritten(ctx context.Context, result *domain.ReviewResult) error {
	topic := TopicReviewCreated
	if result.Meta.IsUpdate {
		topic = TopicReviewUpdated
	}

	data := ReviewEventData{
		ReviewID:      result.Review.ID,
		ProductID:     result.Review.ProductID,
		UserID:        result.Review.UserID,
		Rating:        result.Review.Rating,
		AverageRating: result.Meta.AverageRating,
		TotalReviews:  result.Meta.TotalReviews,
	}

	evt, err := pkgkafka.NewEvent(topic, result.Review.ProductID, AggregateTypeProduct, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create review event: %w", err)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish review event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review event",
		slog.String("topic", topic),
		slog.String("product_id", result.Review.ProductID),
		slog.String("review_id", result.Review.ID),
	)

	return nil
}

// PublishFavoriteAdded publishes a favorite.added event.
func (p *Producer) PublishFavoriteAdded(ctx context.Context, userID, productID string) error {
	return p.publishFavorite(ctx, TopicFavoriteAdded, userID, productID)
}

// PublishFavoriteRemoved publishes a favorite.removed event.
func (p *Producer) PublishFavoriteRemoved(ctx context.Context, userID, productID string) error {
	return p.publishFavorite(ctx, TopicFavoriteRemoved, userID, productID)
}

func (p *Producer) publishFavorite(ctx context.Context, topic, userID, productID string) error {
	data := FavoriteEventData{ProductID: productID, UserID: userID}

	evt, err := pkgkafka.NewEvent(topic, productID, AggregateTypeProduct, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create favorite event: %w", err)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish favorite event: %w", err)
	}

	p.logger.DebugContext(ctx, "published favorite event",
		slog.String("topic", topic),
		slog.String("product_id", productID),
		slog.String("user_id", userID),
	)

	return nil
}
