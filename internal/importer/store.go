package importer

import (
	"context"
	"errors"

	"estate_portal/internal/model"
	"estate_portal/pkg/utils/location"
)

// ErrSlugTaken is returned by Store.CreateProperty when the slug unique index rejects
// the row, typically because a concurrent import claimed it after the probe.
var ErrSlugTaken = errors.New("slug already taken")

// Store is the persistence the importer needs.
type Store interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	// ResolveArea finds an area matching the district by name, English name or slug,
	// creating it when none exists.
	ResolveArea(ctx context.Context, district location.District) (*model.Area, error)
	// CreateProperty inserts p, then p.Images, then p.Files in one transaction.
	CreateProperty(ctx context.Context, p *model.Property) error
}
