package bimi

import (
	"context"
	"errors"
	"testing"

	"github.com/flamingdeath80/dnstoolbox/dns"
)

func TestParseRecord(t *testing.T) {
	r, isBIMI := ParseRecord("v=BIMI1; l=https://example.com/logo.svg; a=https://example.com/vmc.pem")
	if !isBIMI {
		t.Fatal("expected BIMI record")
	}
	if r.LogoURL != "https://example.com/logo.svg" {
		t.Errorf("logo = %q", r.LogoURL)
	}
	if r.EvidenceURL != "https://example.com/vmc.pem" {
		t.Errorf("evidence = %q", r.EvidenceURL)
	}
}

func TestParseRecordNotBIMI(t *testing.T) {
	notBIMI := func(s string) {
		t.Helper()
		if _, isBIMI := ParseRecord(s); isBIMI {
			t.Fatalf("got BIMI record for %q, expected none", s)
		}
	}

	notBIMI("")
	notBIMI("v=spf1 -all")
	notBIMI("l=https://x.example/logo.svg; v=BIMI1") // v must be first
}

func TestLogoURLLastWins(t *testing.T) {
	records := []string{
		"v=BIMI1; l=http://a",
		"v=BIMI1; l=http://b",
	}
	if got := LogoURL(records); got != "http://b" {
		t.Errorf("LogoURL = %q, want last match http://b", got)
	}

	// Also within a single record.
	if got := LogoURL([]string{"v=BIMI1; l=http://a; l=http://b"}); got != "http://b" {
		t.Errorf("LogoURL = %q, want http://b", got)
	}

	if got := LogoURL([]string{"v=BIMI1;"}); got != "" {
		t.Errorf("LogoURL = %q, want empty", got)
	}
	if got := LogoURL(nil); got != "" {
		t.Errorf("LogoURL = %q, want empty", got)
	}
}

func TestTXTName(t *testing.T) {
	if got := TXTName(DefaultSelector, "example.com"); got != "default._bimi.example.com" {
		t.Errorf("TXTName = %q", got)
	}
}

func TestLookup(t *testing.T) {
	resolver := dns.MockResolver{
		TXT: map[string][]string{
			"default._bimi.example.com.": {"v=BIMI1; l=https://example.com/logo.svg"},
		},
		Fail: []string{"txt default._bimi.broken.example."},
	}

	txts, err := Lookup(context.Background(), resolver, "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txts) != 1 {
		t.Errorf("txts = %v", txts)
	}

	if _, err := Lookup(context.Background(), resolver, "absent.example"); !errors.Is(err, ErrNoRecord) {
		t.Errorf("expected ErrNoRecord, got %v", err)
	}
	if _, err := Lookup(context.Background(), resolver, "broken.example"); !errors.Is(err, ErrDNS) {
		t.Errorf("expected ErrDNS, got %v", err)
	}
}
