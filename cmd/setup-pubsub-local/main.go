package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"cyberacademy/internal/logger"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// emulatorConfig is read on its own so the tool runs without the API's
// payment settings.
type emulatorConfig struct {
	ProjectID       string `envconfig:"GCP_PROJECT_ID" default:"cyberacademy-local"`
	EmulatorHost    string `envconfig:"PUBSUB_EMULATOR_HOST" required:"true"`
	EnrollmentTopic string `envconfig:"ENROLLMENT_TOPIC" default:"enrollment-events"`
}

func main() {
	reset := flag.Bool("reset", false, "delete every topic and subscription in the emulator first")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on system environment variables.")
	}

	logger := logger.New()
	logger.Info().Msg("Starting Pub/Sub setup for the local emulator")

	var cfg emulatorConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal().Msgf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pubsub.NewClient(ctx, cfg.ProjectID,
		option.WithEndpoint(cfg.EmulatorHost),
		option.WithoutAuthentication(),
	)
	if err != nil {
		logger.Fatal().Msgf("Failed to create Pub/Sub client: %v", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error().Msgf("Failed to close pubsub client: %v", err)
		}
	}()

	if *reset {
		resetEmulator(ctx, client, logger)
	}
	if err := ensureEnrollmentResources(ctx, client, cfg.EnrollmentTopic, logger); err != nil {
		logger.Fatal().Err(err).Msg("Pub/Sub setup failed")
	}
	logger.Info().Msg("Pub/Sub setup for local environment complete")
}

// resetEmulator deletes all subscriptions and topics. Only ever point this at
// the emulator.
func resetEmulator(ctx context.Context, client *pubsub.Client, logger zerolog.Logger) {
	subs := client.Subscriptions(ctx)
	for {
		sub, err := subs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal().Msgf("Failed to list subscriptions: %v", err)
		}
		logger.Info().Str("subscription", sub.ID()).Msg("Deleting subscription")
		if err := sub.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("subscription", sub.ID()).Msg("Failed to delete subscription")
		}
	}

	topics := client.Topics(ctx)
	for {
		topic, err := topics.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal().Msgf("Failed to list topics: %v", err)
		}
		logger.Info().Str("topic", topic.ID()).Msg("Deleting topic")
		if err := topic.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("topic", topic.ID()).Msg("Failed to delete topic")
		}
	}
}

// ensureEnrollmentResources creates the enrollment topic, its dead-letter
// topic and a pull subscription on each.
func ensureEnrollmentResources(ctx context.Context, client *pubsub.Client, topicID string, logger zerolog.Logger) error {
	retention := 7 * 24 * time.Hour

	dlqTopic, err := ensureTopic(ctx, client, topicID+"-dlq", retention, logger)
	if err != nil {
		return err
	}
	mainTopic, err := ensureTopic(ctx, client, topicID, retention, logger)
	if err != nil {
		return err
	}

	if err := ensureSubscription(ctx, client, topicID+"-sub", pubsub.SubscriptionConfig{
		Topic:       mainTopic,
		AckDeadline: 60 * time.Second,
		RetryPolicy: &pubsub.RetryPolicy{
			MinimumBackoff: 10 * time.Second,
			MaximumBackoff: 600 * time.Second,
		},
		DeadLetterPolicy: &pubsub.DeadLetterPolicy{
			DeadLetterTopic:     dlqTopic.String(),
			MaxDeliveryAttempts: 5,
		},
	}, logger); err != nil {
		return err
	}
	return ensureSubscription(ctx, client, topicID+"-dlq-sub", pubsub.SubscriptionConfig{
		Topic:       dlqTopic,
		AckDeadline: 60 * time.Second,
	}, logger)
}

func ensureTopic(ctx context.Context, client *pubsub.Client, topicID string, retention time.Duration, logger zerolog.Logger) (*pubsub.Topic, error) {
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", topicID, err)
	}
	if exists {
		logger.Info().Str("topic", topicID).Msg("Topic already exists")
		return topic, nil
	}
	logger.Info().Str("topic", topicID).Dur("retention", retention).Msg("Creating topic")
	created, err := client.CreateTopicWithConfig(ctx, topicID, &pubsub.TopicConfig{RetentionDuration: retention})
	if err != nil {
		return nil, fmt.Errorf("create topic %s: %w", topicID, err)
	}
	return created, nil
}

func ensureSubscription(ctx context.Context, client *pubsub.Client, subID string, config pubsub.SubscriptionConfig, logger zerolog.Logger) error {
	sub := client.Subscription(subID)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", subID, err)
	}
	if !exists {
		logger.Info().Str("subscription", subID).Msg("Creating subscription")
		if _, err := client.CreateSubscription(ctx, subID, config); err != nil {
			return fmt.Errorf("create subscription %s: %w", subID, err)
		}
		return nil
	}

	existing, err := sub.Config(ctx)
	if err != nil {
		return fmt.Errorf("read subscription %s: %w", subID, err)
	}
	if existing.AckDeadline == config.AckDeadline {
		logger.Info().Str("subscription", subID).Msg("Subscription is up to date")
		return nil
	}
	logger.Info().Str("subscription", subID).Msg("Updating subscription ack deadline")
	_, err = sub.Update(ctx, pubsub.SubscriptionConfigToUpdate{
		AckDeadline: config.AckDeadline,
		RetryPolicy: config.RetryPolicy,
	})
	return err
}
