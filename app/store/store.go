// Author: DoItWithASmile (2025). Apache 2.0 License

package store

import (
	"context"
	"errors"
)

// ErrUnknownTaxonomy is reported by AssignTerms when the content store does
// not recognize the taxonomy name. Callers skip the assignment instead of
// failing.
var ErrUnknownTaxonomy = errors.New("unknown taxonomy")

// ContentStore is the boundary to the system holding the published records.
// Create/update is atomic per record on the store side; SetSticky is
// idempotent there as well.
type ContentStore interface {
	// FindPost looks up a managed record by its stable external key. The
	// returned sha is the remote content hash recorded on the last publish,
	// empty when the record was never published by this system.
	FindPost(ctx context.Context, slug, postType string) (id int64, remoteSha string, found bool, err error)

	// CreateOrUpdatePost inserts or updates a record from a native
	// attribute map and returns its identity.
	CreateOrUpdatePost(ctx context.Context, props map[string]interface{}) (int64, error)

	SetSticky(ctx context.Context, id int64, sticky bool) error

	// ClearTermRelationships removes all term assignments of the record for
	// its content type.
	ClearTermRelationships(ctx context.Context, id int64, postType string) error

	// AssignTerms sets the terms of one taxonomy, reporting
	// ErrUnknownTaxonomy for taxonomy names the store does not know.
	AssignTerms(ctx context.Context, id int64, postType, taxonomy string, terms []string) error

	// AttachCoverImage fetches the image at sourceURL and sets it as the
	// record's cover image.
	AttachCoverImage(ctx context.Context, id int64, sourceURL string) error
}
