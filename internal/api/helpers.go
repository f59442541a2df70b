package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// requireTenant validates the X-Tenant-ID header. Tenant identity comes
// from the gateway in front of this service; the core trusts the header.
func requireTenant(tenantID string) (string, error) {
	if tenantID == "" {
		return "", huma.Error400BadRequest("Missing X-Tenant-ID header")
	}
	return tenantID, nil
}
