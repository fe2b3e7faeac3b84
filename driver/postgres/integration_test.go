//go:build integration
// +build integration

/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/luandevpro/typeorm/driver"
	"github.com/luandevpro/typeorm/errors"
	"github.com/luandevpro/typeorm/testmodels"
)

func setupTestDriver(t *testing.T) *Driver {
	t.Helper()

	_ = godotenv.Load()

	dsn := os.Getenv("TYPEORM_TEST_DSN")
	if dsn == "" {
		t.Skip("TYPEORM_TEST_DSN not set, skipping integration test")
	}

	d := New()
	err := d.Connect(context.Background(), &driver.Options{
		Type: "postgres",
		DSN:  dsn,
	})
	if err != nil {
		t.Fatalf("Failed to connect driver: %v", err)
	}
	return d
}

func TestIntegrationUserLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	d := setupTestDriver(t)
	defer d.Disconnect(ctx)

	m := testmodels.UserMetadata()
	if err := d.EnsureSchema(ctx, m); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}

	id := fmt.Sprintf("user-%d", time.Now().UnixNano())
	row := driver.Row{
		"id":        id,
		"email":     fmt.Sprintf("%s@example.com", id),
		"name":      "Integration User",
		"age":       int64(30),
		"active":    true,
		"settings":  map[string]any{"theme": "dark"},
		"createdAt": time.Now().UTC(),
	}
	if err := d.Insert(ctx, m, row); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	got, err := d.FindOne(ctx, m, id)
	if err != nil {
		t.Fatalf("Failed to find user: %v", err)
	}
	if got == nil {
		t.Fatal("Expected user row, got nil")
	}
	if got["id"] != id || got["name"] != "Integration User" {
		t.Errorf("Retrieved user doesn't match: got %+v", got)
	}
	if age, ok := got["age"].(int64); !ok || age != 30 {
		t.Errorf("Unexpected age: %v", got["age"])
	}
	settings, ok := got["settings"].(map[string]any)
	if !ok || settings["theme"] != "dark" {
		t.Errorf("Unexpected settings document: %v", got["settings"])
	}
	if _, ok := got["createdAt"].(time.Time); !ok {
		t.Errorf("Expected createdAt to scan as time.Time, got %T", got["createdAt"])
	}

	row["name"] = "Renamed User"
	if err := d.Update(ctx, m, id, row); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	got, err = d.FindOne(ctx, m, id)
	if err != nil {
		t.Fatalf("Failed to find updated user: %v", err)
	}
	if got["name"] != "Renamed User" {
		t.Errorf("Expected renamed user, got %v", got["name"])
	}

	rows, err := d.Find(ctx, m, nil)
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	found := false
	for _, r := range rows {
		if r["id"] == id {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected listing to include user %s", id)
	}

	matched, err := d.Find(ctx, m, driver.Row{"email": row["email"]})
	if err != nil {
		t.Fatalf("Failed to filter users: %v", err)
	}
	if len(matched) != 1 || matched[0]["id"] != id {
		t.Errorf("Expected criteria to match exactly the inserted user, got %v", matched)
	}

	if err := d.Remove(ctx, m, id); err != nil {
		t.Fatalf("Failed to remove user: %v", err)
	}
	got, err = d.FindOne(ctx, m, id)
	if err != nil {
		t.Fatalf("Failed to query removed user: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil row after removal, got %+v", got)
	}

	if err := d.Remove(ctx, m, id); !errors.IsNotFound(err) {
		t.Errorf("Expected not found error, got: %v", err)
	}
}
