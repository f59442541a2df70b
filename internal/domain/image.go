package domain

import "time"

// Tier identifies one of the three image storage locations.
type Tier string

// Storage tiers. Customer images are visible only to their owner, pending
// images only to the approval queue, admin images to every tenant.
const (
	TierCustomer Tier = "customer"
	TierPending  Tier = "pending"
	TierAdmin    Tier = "admin"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierCustomer, TierPending, TierAdmin:
		return true
	}
	return false
}

// Image lifecycle statuses recorded in metadata.
const (
	ImageStatusCustomerDepot = "customer_depot"
	ImageStatusPending       = "pending"
	ImageStatusApproved      = "approved"
	ImageStatusRejected      = "rejected"
)

// Image sources recorded in metadata.
const (
	ImageSourceUpload   = "upload"
	ImageSourceAI       = "ai"
	ImageSourceExternal = "external"
)

// DefaultGroup is the bucket used when a product has no sector/group assignment.
const DefaultGroup = "Genel"

// ImageMeta is the sidecar record persisted alongside every stored image.
type ImageMeta struct {
	// UploadID identifies the originating upload. It survives promotion
	// between tiers so an approved catalog image can be traced back.
	UploadID         string     `json:"upload_id,omitempty"`
	OwnerID          string     `json:"owner_id,omitempty"`
	OriginalOwnerID  string     `json:"original_owner_id,omitempty"` // set when promoted to the admin tier
	Sector           string     `json:"sector"`
	Group            string     `json:"group"`
	Barcode          string     `json:"barcode"`
	Status           string     `json:"status"`
	Source           string     `json:"source,omitempty"`
	OriginalFilename string     `json:"original_filename,omitempty"`
	Quality          string     `json:"quality,omitempty"`
	BlurHash         string     `json:"blurhash,omitempty"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
}

// ImageSource identifies which depot satisfied a hierarchy lookup.
type ImageSource string

// Lookup provenance values.
const (
	SourceCustomerDepot ImageSource = "customer_depot"
	SourceAdminDepot    ImageSource = "admin_depot"
	SourceNone          ImageSource = "none"
)

// Resolution is the result of an image hierarchy lookup. A miss is a normal
// result, not an error; the caller decides whether to fall back to external
// generation.
type Resolution struct {
	Found  bool        `json:"found"`
	Source ImageSource `json:"source"`
	Key    string      `json:"key,omitempty"`
	URL    string      `json:"url,omitempty"`
}

// PendingImage is one entry in the admin approval queue.
type PendingImage struct {
	Barcode    string    `json:"barcode"`
	Sector     string    `json:"sector"`
	Group      string    `json:"group"`
	OwnerID    string    `json:"owner_id"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// CatalogImage is one entry in a depot listing (admin catalog or a
// customer's own depot).
type CatalogImage struct {
	Barcode    string     `json:"barcode"`
	Sector     string     `json:"sector"`
	Group      string     `json:"group"`
	Status     string     `json:"status"`
	URL        string     `json:"url"`
	BlurHash   string     `json:"blurhash,omitempty"`
	UploadedAt time.Time  `json:"uploaded_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}
