package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		isNotFound bool
		isTemp     bool
	}{
		{
			name:       "not found error",
			err:        ErrNotFound,
			isNotFound: true,
		},
		{
			name:   "timeout error",
			err:    ErrTimeout,
			isTemp: true,
		},
		{
			name:   "server failure",
			err:    ErrServFail,
			isTemp: true,
		},
		{
			name:   "refused",
			err:    ErrRefused,
			isTemp: true,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", ErrNotFound),
			isNotFound: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("boom"),
		},
		{
			name: "nil error",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.isNotFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.isNotFound)
			}
			if got := IsTemporary(tt.err); got != tt.isTemp {
				t.Errorf("IsTemporary() = %v, want %v", got, tt.isTemp)
			}
		})
	}
}

// TestResolverInterface verifies that our types implement Resolver.
func TestResolverInterface(t *testing.T) {
	var _ Resolver = (*DNSResolver)(nil)
	var _ Resolver = (*StdResolver)(nil)
	var _ Resolver = MockResolver{}
}

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver(ResolverConfig{})

	if r.config.Timeout == 0 {
		t.Error("expected default timeout to be set")
	}
	if r.config.Retries == 0 {
		t.Error("expected default retries to be set")
	}
	if len(r.config.Nameservers) == 0 {
		t.Error("expected nameservers to be set")
	}
}

func TestMockResolverTXT(t *testing.T) {
	r := MockResolver{
		TXT: map[string][]string{
			"example.com.": {"v=spf1 -all", "other"},
		},
		Fail: []string{"txt broken.example."},
	}

	records, err := r.LookupTXT(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[0] != "v=spf1 -all" {
		t.Fatalf("unexpected records: %v", records)
	}

	_, err = r.LookupTXT(context.Background(), "absent.example")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = r.LookupTXT(context.Background(), "broken.example")
	if !errors.Is(err, ErrServFail) {
		t.Fatalf("expected servfail, got %v", err)
	}
}

func TestMockResolverMX(t *testing.T) {
	r := MockResolver{
		MX: map[string][]*net.MX{
			"example.com.": {{Host: "mx1.example.com.", Pref: 10}},
		},
	}

	records, err := r.LookupMX(context.Background(), "example.com.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Host != "mx1.example.com." {
		t.Fatalf("unexpected records: %+v", records)
	}

	_, err = r.LookupMX(context.Background(), "absent.example")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMockResolverContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := MockResolver{TXT: map[string][]string{"example.com.": {"x"}}}
	if _, err := r.LookupTXT(ctx, "example.com"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestEnsureAbsolute(t *testing.T) {
	if got := ensureAbsolute("example.com"); got != "example.com." {
		t.Errorf("got %q", got)
	}
	if got := ensureAbsolute("example.com."); got != "example.com." {
		t.Errorf("got %q", got)
	}
}
