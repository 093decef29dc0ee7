package dkim

import (
	"context"
	"testing"

	"github.com/flamingdeath80/dnstoolbox/dns"
)

func TestParseRecord(t *testing.T) {
	r, isDKIM := ParseRecord("v=DKIM1; k=rsa; t=y:s; h=sha256; p=MIGfMA0GCSq")
	if !isDKIM {
		t.Fatal("expected DKIM record")
	}
	if r.Version != "DKIM1" || r.Key != "rsa" {
		t.Errorf("version/key = %q/%q", r.Version, r.Key)
	}
	if len(r.Hashes) != 1 || r.Hashes[0] != "sha256" {
		t.Errorf("hashes = %v", r.Hashes)
	}
	if !r.IsTesting() {
		t.Error("expected testing flag")
	}
	if r.Revoked {
		t.Error("record with key data must not be revoked")
	}
}

func TestParseRecordRevoked(t *testing.T) {
	r, isDKIM := ParseRecord("v=DKIM1; p=")
	if !isDKIM {
		t.Fatal("expected DKIM record")
	}
	if !r.Revoked {
		t.Error("empty p= means revoked")
	}
}

func TestParseRecordNotDKIM(t *testing.T) {
	notDKIM := func(s string) {
		t.Helper()
		if _, isDKIM := ParseRecord(s); isDKIM {
			t.Fatalf("got DKIM record for %q, expected none", s)
		}
	}

	notDKIM("")
	notDKIM("google-site-verification=abc")
	notDKIM("v=spf1 -all")
}

// Bare p= records without a v= tag are published in the wild.
func TestParseRecordBareKey(t *testing.T) {
	r, isDKIM := ParseRecord("k=rsa; p=MIGfMA0GCSq")
	if !isDKIM {
		t.Fatal("expected DKIM record")
	}
	if r.PublicKey != "MIGfMA0GCSq" {
		t.Errorf("public key = %q", r.PublicKey)
	}
}

func TestTXTName(t *testing.T) {
	if got := TXTName("s1", "example.com"); got != "s1._domainkey.example.com" {
		t.Errorf("TXTName = %q", got)
	}
}

func TestProbe(t *testing.T) {
	resolver := dns.MockResolver{
		TXT: map[string][]string{
			"s2._domainkey.example.com.":        {"v=DKIM1; k=rsa; p=MIGfMA0GCSq"},
			"default._domainkey.example.org.":   {"v=DKIM1; p=abc"},
			"selector1._domainkey.example.org.": {"v=DKIM1; p="},
		},
		Fail: []string{"txt s1._domainkey.example.com."},
	}

	// Only s2 resolves; the failing s1 lookup is treated as absent.
	found := Probe(context.Background(), resolver, "example.com", []string{"s1", "s2"})
	if len(found) != 1 {
		t.Fatalf("found = %+v, want exactly one selector", found)
	}
	if found[0].Selector != "s2" || len(found[0].Records) != 1 {
		t.Errorf("result = %+v", found[0])
	}

	// Default selector list, order preserved, revoked key flagged.
	found = Probe(context.Background(), resolver, "example.org", nil)
	if len(found) != 2 {
		t.Fatalf("found = %+v, want two selectors", found)
	}
	if found[0].Selector != "default" || found[1].Selector != "selector1" {
		t.Errorf("selector order = %q, %q", found[0].Selector, found[1].Selector)
	}
	if found[0].Revoked {
		t.Error("default selector key is not revoked")
	}
	if !found[1].Revoked {
		t.Error("selector1 key is revoked")
	}

	if found := Probe(context.Background(), resolver, "absent.example", nil); len(found) != 0 {
		t.Errorf("found = %+v, want none", found)
	}
}
