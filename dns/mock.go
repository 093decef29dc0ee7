package dns

import (
	"context"
	"net"
	"slices"
)

// MockResolver is a Resolver used for testing.
// Set DNS records in the fields, which map FQDNs (with trailing dot) to values.
type MockResolver struct {
	TXT map[string][]string
	MX  map[string][]*net.MX

	// Fail contains records that will return a temporary error (SERVFAIL).
	// Format: "type name", e.g. "txt example.com." where type is lowercase.
	Fail []string
}

var _ Resolver = MockResolver{}

// mockReq represents a mock DNS request.
type mockReq struct {
	Type string // E.g. "txt", "mx"
	Name string // FQDN with trailing dot
}

func (mr mockReq) String() string {
	return mr.Type + " " + mr.Name
}

// ensureFQDN ensures the name ends with a dot.
func ensureFQDN(name string) string {
	if len(name) == 0 || name[len(name)-1] != '.' {
		return name + "."
	}
	return name
}

// LookupTXT returns TXT records for the given name.
func (r MockResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fqdn := ensureFQDN(name)
	if slices.Contains(r.Fail, mockReq{"txt", fqdn}.String()) {
		return nil, ErrServFail
	}

	records, ok := r.TXT[fqdn]
	if !ok || len(records) == 0 {
		return nil, ErrNotFound
	}

	return records, nil
}

// LookupMX returns MX records for the given name.
func (r MockResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fqdn := ensureFQDN(name)
	if slices.Contains(r.Fail, mockReq{"mx", fqdn}.String()) {
		return nil, ErrServFail
	}

	records, ok := r.MX[fqdn]
	if !ok || len(records) == 0 {
		return nil, ErrNotFound
	}

	return records, nil
}
