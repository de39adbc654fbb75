package logger

import (
	"context"
	"testing"
	"time"
)

func TestInitAndGet(t *testing.T) {
	if err := Init("text"); err != nil {
		t.Fatalf("init text logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("global logger is nil after Init")
	}

	if err := Init("json"); err != nil {
		t.Fatalf("init json logger: %v", err)
	}

	l := Named("test")
	l.Info(context.Background(), "hello",
		String("who", "test"),
		Int("n", 1),
		Float64("score", 1.5),
		Date("day", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	)
}

func TestSetLevelString(t *testing.T) {
	cases := map[string]bool{
		"debug":   true,
		"info":    true,
		"":        true,
		"warn":    true,
		"warning": true,
		"error":   true,
		"verbose": false,
		"INFO":    true,
	}

	for input, ok := range cases {
		err := SetLevelString(input)
		if ok && err != nil {
			t.Errorf("SetLevelString(%q) unexpected error: %v", input, err)
		}
		if !ok && err == nil {
			t.Errorf("SetLevelString(%q) expected error, got nil", input)
		}
	}
}

func TestFieldConstructors(t *testing.T) {
	if f := String("k", "v"); f.Key != "k" || f.Value != "v" {
		t.Errorf("String field mismatch: %+v", f)
	}
	if f := Bool("ok", true); f.Value != true {
		t.Errorf("Bool field mismatch: %+v", f)
	}
	if f := Duration("d", 2*time.Second); f.Value != "2s" {
		t.Errorf("Duration field mismatch: %+v", f)
	}
}
