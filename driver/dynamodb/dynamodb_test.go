/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/luandevpro/typeorm/driver"
	"github.com/luandevpro/typeorm/metadata"
)

func eventMetadata() *metadata.EntityMetadata {
	return &metadata.EntityMetadata{
		Target: "Event",
		Table:  "events",
		Columns: []*metadata.ColumnMetadata{
			{Name: "id", Type: metadata.TypeString, Primary: true},
			{Name: "system", Type: metadata.TypeString},
			{Name: "score", Type: metadata.TypeFloat, Nullable: true},
		},
		Indexes: map[string]string{
			"PK": "SYSTEM#{system}",
			"SK": "EVENT#{id}",
		},
	}
}

func TestExpandRowMacros(t *testing.T) {
	row := driver.Row{"id": "e-1", "system": "club", "score": 42.5}

	if got := expandRowMacros("SYSTEM#{system}", row); got != "SYSTEM#club" {
		t.Errorf("unexpected expansion: %q", got)
	}
	if got := expandRowMacros("EVENT#{id}#S#{score}", row); got != "EVENT#e-1#S#42.5" {
		t.Errorf("unexpected expansion: %q", got)
	}
	if got := expandRowMacros("X#{missing}", row); got != "X#" {
		t.Errorf("expected missing values to expand empty, got %q", got)
	}
	if got := expandRowMacros("plain", row); got != "plain" {
		t.Errorf("expected template without macros to pass through, got %q", got)
	}
}

func TestExpandKeyMacros(t *testing.T) {
	if got := expandKeyMacros("EVENT#{id}", "e-9"); got != "EVENT#e-9" {
		t.Errorf("unexpected expansion: %q", got)
	}
	if got := expandKeyMacros("USER#{id}", 42); got != "USER#42" {
		t.Errorf("unexpected expansion: %q", got)
	}
}

func TestKeyTemplatesDefaultScheme(t *testing.T) {
	m := &metadata.EntityMetadata{
		Target: "User",
		Table:  "users",
		Columns: []*metadata.ColumnMetadata{
			{Name: "id", Type: metadata.TypeString, Primary: true},
		},
	}
	pkT, skT, err := keyTemplates(m)
	if err != nil {
		t.Fatalf("failed to derive templates: %v", err)
	}
	if pkT != "USER#{id}" || skT != "USER#{id}" {
		t.Errorf("unexpected default templates: %q, %q", pkT, skT)
	}
}

func TestKeyTemplatesRequirePKAndSK(t *testing.T) {
	m := eventMetadata()
	m.Indexes = map[string]string{"PK": "SYSTEM#{system}"}
	if _, _, err := keyTemplates(m); err == nil {
		t.Fatal("expected error for missing SK template, got nil")
	}
}

func TestItemFromRowStampsKeysAndType(t *testing.T) {
	m := eventMetadata()
	row := driver.Row{"id": "e-1", "system": "club", "score": 42.5}

	item, err := itemFromRow(m, row)
	if err != nil {
		t.Fatalf("failed to build item: %v", err)
	}

	pk, ok := item["PK"].(*types.AttributeValueMemberS)
	if !ok || pk.Value != "SYSTEM#club" {
		t.Errorf("unexpected PK attribute: %+v", item["PK"])
	}
	sk, ok := item["SK"].(*types.AttributeValueMemberS)
	if !ok || sk.Value != "EVENT#e-1" {
		t.Errorf("unexpected SK attribute: %+v", item["SK"])
	}
	et, ok := item["EntityType"].(*types.AttributeValueMemberS)
	if !ok || et.Value != "Event" {
		t.Errorf("unexpected EntityType attribute: %+v", item["EntityType"])
	}
	if _, ok := item["id"]; !ok {
		t.Error("expected row attributes to survive marshaling")
	}
}

func TestItemFromRowRejectsEmptyKey(t *testing.T) {
	m := eventMetadata()
	m.Indexes = map[string]string{"PK": "{system}", "SK": "EVENT#{id}"}
	if _, err := itemFromRow(m, driver.Row{"score": 1.0}); err == nil {
		t.Fatal("expected error for empty expanded key, got nil")
	}
}

func TestRowFromItemStripsInfrastructureAttributes(t *testing.T) {
	item := map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: "SYSTEM#club"},
		"SK":         &types.AttributeValueMemberS{Value: "EVENT#e-1"},
		"EntityType": &types.AttributeValueMemberS{Value: "Event"},
		"id":         &types.AttributeValueMemberS{Value: "e-1"},
		"system":     &types.AttributeValueMemberS{Value: "club"},
		"score":      &types.AttributeValueMemberN{Value: "42.5"},
	}

	row, err := rowFromItem(item)
	if err != nil {
		t.Fatalf("failed to convert item: %v", err)
	}
	for _, infra := range []string{"PK", "SK", "EntityType"} {
		if _, ok := row[infra]; ok {
			t.Errorf("expected %s to be stripped from row", infra)
		}
	}
	if row["id"] != "e-1" || row["system"] != "club" {
		t.Errorf("unexpected row values: %v", row)
	}
	if score, ok := row["score"].(float64); !ok || score != 42.5 {
		t.Errorf("unexpected score value: %v", row["score"])
	}
}

func TestKeyFromValueUsesLiteralKey(t *testing.T) {
	m := eventMetadata()
	keyMap, err := keyFromValue(m, "e-7")
	if err != nil {
		t.Fatalf("failed to build key: %v", err)
	}
	pk := keyMap["PK"].(*types.AttributeValueMemberS)
	sk := keyMap["SK"].(*types.AttributeValueMemberS)
	if pk.Value != "SYSTEM#e-7" || sk.Value != "EVENT#e-7" {
		t.Errorf("unexpected key attributes: %q, %q", pk.Value, sk.Value)
	}
}

func TestExpandStrict(t *testing.T) {
	if got, ok := expandStrict("SYSTEM#{system}", driver.Row{"system": "club"}); !ok || got != "SYSTEM#club" {
		t.Errorf("unexpected expansion: %q, %v", got, ok)
	}
	if _, ok := expandStrict("SYSTEM#{system}", driver.Row{"id": "e-1"}); ok {
		t.Error("expected unresolved macro to fail strict expansion")
	}
	if _, ok := expandStrict("SYSTEM#{system}", driver.Row{"system": ""}); ok {
		t.Error("expected empty value to fail strict expansion")
	}
	if got, ok := expandStrict("CONFIG", nil); !ok || got != "CONFIG" {
		t.Errorf("expected constant template to resolve, got %q, %v", got, ok)
	}
}

func TestCriteriaFilter(t *testing.T) {
	frag, names, values, err := criteriaFilter(driver.Row{"system": "club", "score": 42.5})
	if err != nil {
		t.Fatalf("failed to build filter: %v", err)
	}
	if frag != "#c0 = :c0 AND #c1 = :c1" {
		t.Errorf("unexpected expression: %q", frag)
	}
	if names["#c0"] != "score" || names["#c1"] != "system" {
		t.Errorf("unexpected attribute names: %v", names)
	}
	score, ok := values[":c0"].(*types.AttributeValueMemberN)
	if !ok || score.Value != "42.5" {
		t.Errorf("unexpected score attribute: %+v", values[":c0"])
	}
	system, ok := values[":c1"].(*types.AttributeValueMemberS)
	if !ok || system.Value != "club" {
		t.Errorf("unexpected system attribute: %+v", values[":c1"])
	}
}

func TestKeyFromValueExpandsRowKeys(t *testing.T) {
	m := eventMetadata()
	keyMap, err := keyFromValue(m, driver.Row{"id": "e-1", "system": "club"})
	if err != nil {
		t.Fatalf("failed to build key: %v", err)
	}
	pk := keyMap["PK"].(*types.AttributeValueMemberS)
	sk := keyMap["SK"].(*types.AttributeValueMemberS)
	if pk.Value != "SYSTEM#club" || sk.Value != "EVENT#e-1" {
		t.Errorf("unexpected key attributes: %q, %q", pk.Value, sk.Value)
	}
}
