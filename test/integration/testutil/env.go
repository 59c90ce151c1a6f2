package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"mentorbook/pkg/client"
)

const DefaultHealthCheckTimeout = 30 * time.Second

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
}

// NewTestEnv skips the calling test unless TEST_SERVER_URL points at a running server.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration test")
	}

	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:    serverURL,
	}
}

func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *client.BookingClient) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollections(t)

	httpClient := client.NewHttpClient(e.ServerURL)
	if err := httpClient.WaitForHealthy(DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("server at %s: %v", e.ServerURL, err)
	}

	return mongo, client.NewBookingClient(e.ServerURL)
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanCollections(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FutureDate returns a date string days ahead of now in the service locale.
func FutureDate(days int) string {
	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Asia/Kolkata"))
	if err != nil {
		panic(fmt.Sprintf("load timezone: %v", err))
	}
	return time.Now().In(loc).AddDate(0, 0, days).Format(time.DateOnly)
}
