//go:build integration
// +build integration

/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package typeorm_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/luandevpro/typeorm"
	"github.com/luandevpro/typeorm/driver"
	_ "github.com/luandevpro/typeorm/driver/postgres"
	"github.com/luandevpro/typeorm/errors"
	"github.com/luandevpro/typeorm/metadata"
	"github.com/luandevpro/typeorm/repository"
	"github.com/luandevpro/typeorm/subscriber"
	"github.com/luandevpro/typeorm/testmodels"
)

// Test entities
type IntegrationOrder struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Total     float64   `json:"total,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func orderMetadata() *metadata.EntityMetadata {
	return &metadata.EntityMetadata{
		Target: "IntegrationOrder",
		Table:  "integration_orders",
		Columns: []*metadata.ColumnMetadata{
			{Name: "id", Type: metadata.TypeString, Primary: true, Generated: true},
			{Name: "userId", Type: metadata.TypeString},
			{Name: "total", Type: metadata.TypeFloat, Nullable: true},
			{Name: "status", Type: metadata.TypeString, Nullable: true},
			{Name: "createdAt", Type: metadata.TypeTimestamp, Nullable: true},
		},
	}
}

// stampSubscriber lowercases emails before users are written.
type stampSubscriber struct{}

func (stampSubscriber) ListenTo() metadata.Target { return "User" }

func (stampSubscriber) Notify(ctx context.Context, event subscriber.Event) error {
	if event.Action != subscriber.BeforeInsert {
		return nil
	}
	if u, ok := event.Entity.(*testmodels.User); ok {
		u.Email = strings.ToLower(u.Email)
	}
	return nil
}

func setupTestConnection(t *testing.T) *typeorm.Connection {
	t.Helper()

	_ = godotenv.Load()

	dsn := os.Getenv("TYPEORM_TEST_DSN")
	if dsn == "" {
		t.Skip("TYPEORM_TEST_DSN not set, skipping integration test")
	}

	conn, err := typeorm.Open(context.Background(), &driver.Options{
		Type: "postgres",
		DSN:  dsn,
	})
	if err != nil {
		t.Fatalf("Failed to open connection: %v", err)
	}
	return conn
}

func TestIntegrationBasicOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	conn := setupTestConnection(t)
	defer conn.Close(ctx)

	if err := conn.AddSubscribers(stampSubscriber{}); err != nil {
		t.Fatalf("Failed to add subscriber: %v", err)
	}
	if err := conn.AddMetadatas(testmodels.UserMetadata()); err != nil {
		t.Fatalf("Failed to register metadata: %v", err)
	}
	if err := conn.Synchronize(ctx); err != nil {
		t.Fatalf("Failed to synchronize schema: %v", err)
	}

	repo, err := conn.GetRepository("User")
	if err != nil {
		t.Fatalf("Failed to get repository: %v", err)
	}

	user := &testmodels.User{
		Email:     fmt.Sprintf("User-%d@Example.com", time.Now().UnixNano()),
		Name:      "Integration User",
		Age:       30,
		Active:    true,
		Settings:  map[string]any{"theme": "dark"},
		CreatedAt: time.Now().UTC(),
	}

	// Test Insert
	if err := repo.Insert(ctx, user); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Expected generated ID after insert")
	}
	if user.Email != strings.ToLower(user.Email) {
		t.Errorf("Expected subscriber to lowercase email, got %s", user.Email)
	}

	// Test FindOne through the typed helper
	got, err := repository.One[testmodels.User](ctx, repo, user.ID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if got == nil {
		t.Fatal("Expected user, got nil")
	}
	if got.ID != user.ID || got.Email != user.Email {
		t.Errorf("Retrieved user doesn't match: got %+v, want %+v", got, user)
	}
	if got.Settings["theme"] != "dark" {
		t.Errorf("Expected settings to round-trip, got %v", got.Settings)
	}

	// Test Update
	user.Name = "Updated Name"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	got, err = repository.One[testmodels.User](ctx, repo, user.ID)
	if err != nil {
		t.Fatalf("Failed to get updated user: %v", err)
	}
	if got.Name != "Updated Name" {
		t.Errorf("Expected updated name, got %s", got.Name)
	}

	// Test Remove
	if err := repo.Remove(ctx, user); err != nil {
		t.Fatalf("Failed to remove user: %v", err)
	}
	if _, err := repository.One[testmodels.User](ctx, repo, user.ID); !errors.IsNotFound(err) {
		t.Errorf("Expected not found error, got: %v", err)
	}
}

func TestIntegrationMultiEntity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	conn := setupTestConnection(t)
	defer conn.Close(ctx)

	if err := conn.AddMetadatas(testmodels.UserMetadata(), orderMetadata()); err != nil {
		t.Fatalf("Failed to register metadata: %v", err)
	}
	if err := conn.Synchronize(ctx); err != nil {
		t.Fatalf("Failed to synchronize schema: %v", err)
	}

	orders, err := conn.GetRepository("IntegrationOrder")
	if err != nil {
		t.Fatalf("Failed to get order repository: %v", err)
	}

	userID := fmt.Sprintf("user-%d", time.Now().UnixNano())
	seed := []*IntegrationOrder{
		{UserID: userID, Total: 100.50, Status: "pending", CreatedAt: time.Now().UTC()},
		{UserID: userID, Total: 200.75, Status: "completed", CreatedAt: time.Now().UTC()},
		{UserID: userID, Total: 50.25, Status: "pending", CreatedAt: time.Now().UTC()},
	}
	for _, order := range seed {
		if err := orders.Insert(ctx, order); err != nil {
			t.Fatalf("Failed to insert order: %v", err)
		}
	}

	all, err := repository.All[IntegrationOrder](ctx, orders, driver.Row{"userId": userID})
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 orders for %s, got %d", userID, len(all))
	}

	// Unknown targets stay unknown even with entities registered.
	if _, err := conn.GetRepository("Ghost"); !errors.IsRepositoryNotFound(err) {
		t.Errorf("Expected repository not found error, got: %v", err)
	}

	// Clean up
	for _, order := range seed {
		orders.Remove(ctx, order)
	}
}

func TestIntegrationReconnect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	conn := setupTestConnection(t)

	if err := conn.AddMetadatas(testmodels.UserMetadata()); err != nil {
		t.Fatalf("Failed to register metadata: %v", err)
	}
	if err := conn.Close(ctx); err != nil {
		t.Fatalf("Failed to close connection: %v", err)
	}

	repo, err := conn.GetRepository("User")
	if err != nil {
		t.Fatalf("Expected registrations to survive close: %v", err)
	}
	if err := repo.Insert(ctx, &testmodels.User{Email: "offline@example.com"}); !errors.IsNotConnected(err) {
		t.Errorf("Expected not connected error, got: %v", err)
	}

	if err := conn.Connect(ctx, conn.Options()); err != nil {
		t.Fatalf("Failed to reconnect: %v", err)
	}
	defer conn.Close(ctx)

	if err := conn.Synchronize(ctx); err != nil {
		t.Fatalf("Failed to synchronize after reconnect: %v", err)
	}

	user := &testmodels.User{Email: fmt.Sprintf("reconnect-%d@example.com", time.Now().UnixNano())}
	if err := repo.Insert(ctx, user); err != nil {
		t.Fatalf("Failed to insert after reconnect: %v", err)
	}
	repo.Remove(ctx, user)
}
