package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateString(t *testing.T) {
	gen := NewGenerator()

	id := gen.GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestTypedIDGeneration(t *testing.T) {
	tests := []struct {
		prefix string
		id     string
	}{
		{TabPrefix, string(NewTabID())},
		{WorkspacePrefix, string(NewWorkspaceID())},
		{RequestPrefix, string(NewRequestID())},
	}

	for _, tt := range tests {
		if !strings.HasPrefix(tt.id, tt.prefix+"_") {
			t.Errorf("ID should start with '%s_', got: %s", tt.prefix, tt.id)
		}
		if !IsValidPrefixed(tt.id, tt.prefix) {
			t.Errorf("ID should validate with prefix %s: %s", tt.prefix, tt.id)
		}
	}
}

func TestIsValid(t *testing.T) {
	gen := NewGenerator()

	if !IsValid(gen.GenerateString()) {
		t.Error("Generated ULID should be valid")
	}

	for _, id := range []string{"", "invalid", "1234567890", "zzzzzzzzzzzzzzzzzzzzzzzzzzz"} {
		if IsValid(id) {
			t.Errorf("ID should be invalid: %s", id)
		}
	}
}

func TestIsValidPrefixed(t *testing.T) {
	tab := string(NewTabID())

	if IsValidPrefixed(tab, WorkspacePrefix) {
		t.Errorf("tab ID should not validate as workspace ID: %s", tab)
	}
	if IsValidPrefixed("tab_nope", TabPrefix) {
		t.Error("malformed ULID part should be rejected")
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now()
	id := string(NewTabID())
	after := time.Now()

	ts, err := Timestamp(id)
	if err != nil {
		t.Fatalf("Failed to extract timestamp: %v", err)
	}

	// millisecond precision
	if ts.UnixMilli() < before.UnixMilli() || ts.UnixMilli() > after.UnixMilli() {
		t.Errorf("Timestamp should be between %d and %d ms, got %d ms",
			before.UnixMilli(), after.UnixMilli(), ts.UnixMilli())
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const idsPerGoroutine = 100

	var wg sync.WaitGroup
	idChan := make(chan string, goroutines*idsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < idsPerGoroutine; j++ {
				idChan <- gen.GenerateWithPrefix(TabPrefix)
			}
		}()
	}

	wg.Wait()
	close(idChan)

	seen := make(map[string]bool)
	for id := range idChan {
		if seen[id] {
			t.Errorf("Duplicate ID found in concurrent generation: %s", id)
		}
		seen[id] = true
	}

	if len(seen) != goroutines*idsPerGoroutine {
		t.Errorf("Expected %d unique IDs, got %d", goroutines*idsPerGoroutine, len(seen))
	}
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	gen := NewGenerator()
	fixed := time.UnixMilli(1_700_000_000_000)
	gen.now = func() time.Time { return fixed }

	prev := gen.GenerateString()
	for i := 0; i < 50; i++ {
		next := gen.GenerateString()
		if next <= prev {
			t.Fatalf("IDs in the same millisecond should increase: %s <= %s", next, prev)
		}
		prev = next
	}
}

func TestDefaultGenerator(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should return the same instance")
	}
}

func BenchmarkGenerateWithPrefix(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.GenerateWithPrefix(TabPrefix)
	}
}
