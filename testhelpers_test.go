//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/application"
	"github.com/Nestaway-Rentals/service-rental/internal/cache"
	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/database"
	"github.com/Nestaway-Rentals/service-rental/internal/common/kafka"
	"github.com/Nestaway-Rentals/service-rental/internal/common/session"
	"github.com/Nestaway-Rentals/service-rental/internal/contracts"
	rentalEvents "github.com/Nestaway-Rentals/service-rental/internal/events"
	"github.com/Nestaway-Rentals/service-rental/internal/i18n"
	"github.com/Nestaway-Rentals/service-rental/internal/repository"
	"github.com/Nestaway-Rentals/service-rental/internal/storage"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// rentalStack holds wired-up rental service components.
type rentalStack struct {
	Auth            *application.AuthService
	Profiles        *application.ProfileService
	Listings        *application.ListingService
	Bookings        *application.BookingService
	Consumer        *rentalEvents.BookingEventConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers, applies the SQL
// migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger, _ := zap.NewDevelopment()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_rental",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pgCfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_rental",
		SSLMode:  "disable",
	}

	// Poll until the database accepts connections.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(pgCfg, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(pgCfg.DatabaseURL(), "migrations", logger))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, contracts.TopicBookingEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupRentalStack wires up the services and the notification consumer.
func setupRentalStack(t *testing.T, db *gorm.DB, brokers []string) *rentalStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	catalog, err := i18n.Load()
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("integration-secret", time.Hour)
	producer := kafka.NewProducer(brokers, logger)

	profileRepo := repository.NewGormProfileRepository(db)
	listingRepo := repository.NewGormListingRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)

	uploader, err := storage.NewS3Uploader(context.Background(), storage.Options{})
	require.NoError(t, err)

	notificationSvc := application.NewNotificationService(notificationRepo, catalog, logger)
	groupPrefix := fmt.Sprintf("test-%s-", uuid.New().String()[:8])

	return &rentalStack{
		Auth:            application.NewAuthService(profileRepo, jwtManager, logger),
		Profiles:        application.NewProfileService(profileRepo, jwtManager, logger),
		Listings:        application.NewListingService(listingRepo, cache.NoopListingCache{}, uploader, logger),
		Bookings:        application.NewBookingService(bookingRepo, listingRepo, producer, logger),
		Consumer:        rentalEvents.NewBookingEventConsumer(brokers, groupPrefix, notificationSvc, logger),
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// registerUser creates a profile and returns a context carrying its identity.
func registerUser(t *testing.T, stack *rentalStack, email string, host bool) (context.Context, uuid.UUID) {
	t.Helper()
	result, err := stack.Auth.Register(context.Background(), application.RegisterRequest{
		Email:    email,
		Password: "correct-horse",
		FullName: "Test " + email,
	})
	require.NoError(t, err)

	ctx := session.WithIdentity(context.Background(), session.Identity{
		UserID: result.Profile.ID,
		Role:   auth.RoleGuest,
	})
	if host {
		_, err = stack.Profiles.BecomeHost(ctx)
		require.NoError(t, err)
		ctx = session.WithIdentity(context.Background(), session.Identity{
			UserID: result.Profile.ID,
			Role:   auth.RoleHost,
		})
	}
	return ctx, result.Profile.ID
}

// waitForNotification polls the notifications table for a row of the given kind.
func waitForNotification(t *testing.T, db *gorm.DB, recipientID uuid.UUID, kind string, timeout time.Duration) repository.NotificationModel {
	t.Helper()
	var result repository.NotificationModel
	require.Eventually(t, func() bool {
		var model repository.NotificationModel
		err := db.Where("recipient_id = ? AND kind = ?", recipientID, kind).First(&model).Error
		if err != nil {
			return false
		}
		result = model
		return true
	}, timeout, 200*time.Millisecond, "no %s notification for %s", kind, recipientID)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	time.Sleep(1 * time.Second)
}
