package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/restohub/resto-cli/internal/api"
	iface "github.com/restohub/resto-cli/internal/service/interface"
)

// ImageField is the multipart field carrying uploaded images
const ImageField = "image"

// resourceService implements iface.ResourceService
type resourceService struct {
	client *api.Client
}

// NewResourceService creates a new resource service
func NewResourceService(client *api.Client) iface.ResourceService {
	return &resourceService{
		client: client,
	}
}

// pagedList is the envelope some list endpoints wrap their items in
type pagedList struct {
	Data  []iface.Record `json:"data"`
	Items []iface.Record `json:"items"`
}

// List returns the items of a collection. Both plain arrays and
// {"data": [...]} envelopes are accepted.
func (s *resourceService) List(ctx context.Context, resource iface.Resource, query url.Values) ([]iface.Record, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, string(resource), &raw, api.WithQuery(query)); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", resource, err)
	}

	return decodeList(raw)
}

// Get returns one item by ID
func (s *resourceService) Get(ctx context.Context, resource iface.Resource, id string) (iface.Record, error) {
	var record iface.Record
	if err := s.client.Get(ctx, itemPath(resource, id), &record); err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", resource, id, err)
	}

	return record, nil
}

// Create creates an item
func (s *resourceService) Create(ctx context.Context, resource iface.Resource, data iface.Record) (iface.Record, error) {
	var record iface.Record
	if err := s.client.Post(ctx, string(resource), data, &record); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", resource, err)
	}

	return record, nil
}

// Update replaces an item
func (s *resourceService) Update(ctx context.Context, resource iface.Resource, id string, data iface.Record) (iface.Record, error) {
	var record iface.Record
	if err := s.client.Put(ctx, itemPath(resource, id), data, &record); err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", resource, id, err)
	}

	return record, nil
}

// Patch changes some fields of an item
func (s *resourceService) Patch(ctx context.Context, resource iface.Resource, id string, data iface.Record) (iface.Record, error) {
	var record iface.Record
	if err := s.client.Patch(ctx, itemPath(resource, id), data, &record); err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", resource, id, err)
	}

	return record, nil
}

// Delete deletes an item by ID
func (s *resourceService) Delete(ctx context.Context, resource iface.Resource, id string) error {
	if err := s.client.Delete(ctx, itemPath(resource, id), nil); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", resource, id, err)
	}

	return nil
}

// UploadImage sends the image file at path as multipart form data
func (s *resourceService) UploadImage(ctx context.Context, resource iface.Resource, id, path string) (iface.Record, error) {
	form := api.NewForm().AddFile(ImageField, path)

	var record iface.Record
	if err := s.client.Put(ctx, itemPath(resource, id)+"/image", form, &record); err != nil {
		return nil, fmt.Errorf("failed to upload image for %s %s: %w", resource, id, err)
	}

	return record, nil
}

func itemPath(resource iface.Resource, id string) string {
	return fmt.Sprintf("%s/%s", resource, url.PathEscape(id))
}

func decodeList(raw json.RawMessage) ([]iface.Record, error) {
	if len(raw) == 0 {
		return []iface.Record{}, nil
	}

	var records []iface.Record
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var paged pagedList
	if err := json.Unmarshal(raw, &paged); err != nil {
		return nil, fmt.Errorf("failed to parse list: %w", api.ErrInvalidResponse)
	}
	if paged.Data != nil {
		return paged.Data, nil
	}
	if paged.Items != nil {
		return paged.Items, nil
	}
	return []iface.Record{}, nil
}
