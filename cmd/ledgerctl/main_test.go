package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"bankai/backend/internal/store/memory"
)

func TestCommandsOverSeededStore(t *testing.T) {
	blobs := memory.New()
	ctx := context.Background()

	var out bytes.Buffer
	if err := runCommand(ctx, blobs, "seed", nil, &out); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out.String(), "seeded") {
		t.Fatalf("unexpected seed output %q", out.String())
	}

	out.Reset()
	if err := runCommand(ctx, blobs, "low-stock", nil, &out); err != nil {
		t.Fatalf("low-stock: %v", err)
	}
	if !strings.Contains(out.String(), "P-003") || strings.Contains(out.String(), "P-001") {
		t.Fatalf("expected only P-003 in low stock, got %q", out.String())
	}

	out.Reset()
	if err := runCommand(ctx, blobs, "export-csv", nil, &out); err != nil {
		t.Fatalf("export-csv: %v", err)
	}
	if !strings.HasPrefix(out.String(), "sku,name,category,qty,min,price\n") {
		t.Fatalf("unexpected csv %q", out.String())
	}

	out.Reset()
	if err := runCommand(ctx, blobs, "dashboard", nil, &out); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(out.String(), `"lowStockCount": 1`) {
		t.Fatalf("unexpected dashboard %q", out.String())
	}

	out.Reset()
	if err := runCommand(ctx, blobs, "seed", nil, &out); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if !strings.Contains(out.String(), "nothing seeded") {
		t.Fatalf("expected second seed to be skipped, got %q", out.String())
	}
}

func TestUnknownCommandFails(t *testing.T) {
	var out bytes.Buffer
	if err := runCommand(context.Background(), memory.New(), "explode", nil, &out); err == nil {
		t.Fatalf("expected unknown command to fail")
	}
	if err := runCommand(context.Background(), memory.New(), "dashboard", []string{"extra"}, &out); err == nil {
		t.Fatalf("expected extra argument to fail")
	}
}
