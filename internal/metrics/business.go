package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	meter = otel.Meter("socialchef/chefgpt")

	// Recipe metrics
	RecipeGenerationsTotal   metric.Int64Counter     = noop.Int64Counter{}
	RecipeGenerationDuration metric.Float64Histogram = noop.Float64Histogram{}

	// Admission metrics
	RateLimitRejectionsTotal metric.Int64Counter = noop.Int64Counter{}

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter     = noop.Int64Counter{}
	ExternalAPIDuration   metric.Float64Histogram = noop.Float64Histogram{}

	// Image and chat metrics
	ImageGenerationsTotal metric.Int64Counter = noop.Int64Counter{}
	ChatMessagesTotal     metric.Int64Counter = noop.Int64Counter{}
)

// Init replaces the no-op instruments with ones bound to the global meter provider.
func Init() error {
	var err error

	RecipeGenerationsTotal, err = meter.Int64Counter(
		"recipe.generations.total",
		metric.WithDescription("Total number of recipe generation requests, by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeGenerationDuration, err = meter.Float64Histogram(
		"recipe.generation.duration",
		metric.WithDescription("Duration of recipe generation including model call"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	RateLimitRejectionsTotal, err = meter.Int64Counter(
		"ratelimit.rejections.total",
		metric.WithDescription("Total number of requests rejected by the rate limiter"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	ImageGenerationsTotal, err = meter.Int64Counter(
		"image.generations.total",
		metric.WithDescription("Total number of image generation requests, by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ChatMessagesTotal, err = meter.Int64Counter(
		"chat.messages.total",
		metric.WithDescription("Total number of recipe chat messages, by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}
