package iface

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Resource is a back-office collection; its name is also its API endpoint
type Resource string

// Back-office collections
const (
	Categories    Resource = "categories"
	Supplements   Resource = "supplements"
	Users         Resource = "users"
	Roles         Resource = "roles"
	Restaurants   Resource = "restaurants"
	Menus         Resource = "menus"
	Customers     Resource = "customers"
	Comments      Resource = "comments"
	Notifications Resource = "notifications"
)

// Resources lists every collection exposed by the CLI
var Resources = []Resource{
	Categories,
	Supplements,
	Users,
	Roles,
	Restaurants,
	Menus,
	Customers,
	Comments,
	Notifications,
}

// Record is one item of a collection, kept as decoded JSON
type Record map[string]any

// ID returns the record identifier formatted for display and URLs
func (r Record) ID() string {
	return r.String("id")
}

// String returns a field formatted for display, or "" when absent
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch value := v.(type) {
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
	}
	return fmt.Sprint(v)
}

// ResourceService defines the CRUD operations shared by every collection
type ResourceService interface {
	// List returns the items of a collection
	List(ctx context.Context, resource Resource, query url.Values) ([]Record, error)

	// Get returns one item by ID
	Get(ctx context.Context, resource Resource, id string) (Record, error)

	// Create creates an item
	Create(ctx context.Context, resource Resource, data Record) (Record, error)

	// Update replaces an item
	Update(ctx context.Context, resource Resource, id string, data Record) (Record, error)

	// Patch changes some fields of an item
	Patch(ctx context.Context, resource Resource, id string, data Record) (Record, error)

	// Delete deletes an item by ID
	Delete(ctx context.Context, resource Resource, id string) error

	// UploadImage sends the image file at path for an item
	UploadImage(ctx context.Context, resource Resource, id, path string) (Record, error)
}
