package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatusReportsDependencies(t *testing.T) {
	svc := NewService(PingFunc(func(context.Context) error { return nil }), PingFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	got := svc.Status(context.Background())
	if got["ok"] != true {
		t.Fatalf("expected ok=true, got %v", got["ok"])
	}
	if got["database"] != "up" {
		t.Fatalf("expected database up, got %v", got["database"])
	}
	if got["cache"] != "down" {
		t.Fatalf("expected cache down, got %v", got["cache"])
	}
}

func TestStatusWithoutDependencies(t *testing.T) {
	got := NewService(nil, nil).Status(context.Background())
	if got["database"] != "disabled" || got["cache"] != "disabled" {
		t.Fatalf("expected disabled dependencies, got %v", got)
	}
}
