package cmd

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/restohub/resto-cli/internal/api"
	iface "github.com/restohub/resto-cli/internal/service/interface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceListCommand_Run(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		records       []iface.Record
		listErr       error
		wantResource  iface.Resource
		wantQuery     url.Values
		wantOutput    []string
		wantNotOutput []string
		wantErr       bool
	}{
		{
			name: "lists categories in table format",
			args: []string{"categories", "list"},
			records: []iface.Record{
				{"id": float64(1), "name": "Boissons", "position": float64(2)},
				{"id": float64(2), "name": "Desserts"},
			},
			wantResource:  iface.Categories,
			wantOutput:    []string{"ID", "NAME", "Boissons", "Desserts"},
			wantNotOutput: []string{"POSITION"},
		},
		{
			name:         "passes filters as query parameters",
			args:         []string{"comments", "list", "-f", "restaurantId=4", "--filter", "rating=5"},
			records:      []iface.Record{{"id": float64(9), "message": "Excellent", "rating": float64(5)}},
			wantResource: iface.Comments,
			wantQuery:    url.Values{"restaurantId": {"4"}, "rating": {"5"}},
			wantOutput:   []string{"Excellent", "RATING"},
		},
		{
			name:         "shows empty message",
			args:         []string{"menus", "list"},
			records:      []iface.Record{},
			wantResource: iface.Menus,
			wantOutput:   []string{"No menus found."},
		},
		{
			name:         "outputs JSON",
			args:         []string{"roles", "list", "-o", "json"},
			records:      []iface.Record{{"id": float64(1), "name": "admin"}},
			wantResource: iface.Roles,
			wantOutput:   []string{`"name": "admin"`},
		},
		{
			name:         "returns session expired",
			args:         []string{"customers", "list"},
			listErr:      api.ErrSessionExpired,
			wantResource: iface.Customers,
			wantErr:      true,
		},
		{
			name:    "rejects malformed filters",
			args:    []string{"customers", "list", "-f", "city"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			m.resource.ListFunc = func(ctx context.Context, resource iface.Resource, query url.Values) ([]iface.Record, error) {
				assert.Equal(t, tt.wantResource, resource)
				if tt.wantQuery != nil {
					assert.Equal(t, tt.wantQuery, query)
				}
				return tt.records, tt.listErr
			}

			output, err := m.execute(t, tt.args...)

			if tt.wantErr {
				require.Error(t, err)
				if tt.listErr != nil {
					assert.ErrorIs(t, err, tt.listErr)
				}
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantOutput {
				assert.Contains(t, output, want)
			}
			for _, notWant := range tt.wantNotOutput {
				assert.NotContains(t, output, notWant)
			}
		})
	}
}

func TestResourceGetCommand_Run(t *testing.T) {
	m := newMocks()
	m.resource.GetFunc = func(ctx context.Context, resource iface.Resource, id string) (iface.Record, error) {
		assert.Equal(t, iface.Restaurants, resource)
		if id != "4" {
			return nil, &api.APIError{StatusCode: 404, Message: "Not found"}
		}
		return iface.Record{"id": float64(4), "name": "Chez Paul", "address": map[string]any{"city": "Lyon"}}, nil
	}

	output, err := m.execute(t, "restaurants", "get", "4")
	require.NoError(t, err)
	assert.Contains(t, output, "id:")
	assert.Contains(t, output, "Chez Paul")
	assert.Contains(t, output, `{"city":"Lyon"}`)

	_, err = m.execute(t, "restaurants", "get", "5")
	require.Error(t, err)
	assert.Equal(t, "Not found", err.Error())
}

func TestResourceCreateCommand_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supplement.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Sauce samouraï","price":0.5}`), 0600))

	tests := []struct {
		name     string
		args     []string
		wantName string
		wantErr  bool
	}{
		{
			name:     "from --data",
			args:     []string{"supplements", "create", "--data", `{"name":"Cheddar"}`},
			wantName: "Cheddar",
		},
		{
			name:     "from --file",
			args:     []string{"supplements", "create", "--file", path},
			wantName: "Sauce samouraï",
		},
		{
			name:    "without document",
			args:    []string{"supplements", "create"},
			wantErr: true,
		},
		{
			name:    "with invalid JSON",
			args:    []string{"supplements", "create", "-d", `{"name":`},
			wantErr: true,
		},
		{
			name:    "with a JSON array",
			args:    []string{"supplements", "create", "-d", `[1,2]`},
			wantErr: true,
		},
		{
			name:    "with both sources",
			args:    []string{"supplements", "create", "-d", `{}`, "--file", path},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			m.resource.CreateFunc = func(ctx context.Context, resource iface.Resource, data iface.Record) (iface.Record, error) {
				assert.Equal(t, iface.Supplements, resource)
				assert.Equal(t, tt.wantName, data.String("name"))
				return iface.Record{"id": float64(11), "name": data["name"]}, nil
			}

			output, err := m.execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, output, "Created supplement 11")
		})
	}
}

func TestResourceUpdateCommand_Run(t *testing.T) {
	var usedPatch, usedPut bool
	m := newMocks()
	m.resource.UpdateFunc = func(ctx context.Context, resource iface.Resource, id string, data iface.Record) (iface.Record, error) {
		usedPut = true
		return data, nil
	}
	m.resource.PatchFunc = func(ctx context.Context, resource iface.Resource, id string, data iface.Record) (iface.Record, error) {
		usedPatch = true
		assert.Equal(t, "7", id)
		return data, nil
	}

	output, err := m.execute(t, "categories", "update", "7", "-d", `{"name":"Entrées"}`)
	require.NoError(t, err)
	assert.True(t, usedPut)
	assert.False(t, usedPatch)
	assert.Contains(t, output, "Updated category 7")

	_, err = m.execute(t, "categories", "update", "7", "--partial", "-d", `{"position":1}`)
	require.NoError(t, err)
	assert.True(t, usedPatch)
}

func TestResourceDeleteCommand_Run(t *testing.T) {
	deleted := ""
	m := newMocks()
	m.resource.DeleteFunc = func(ctx context.Context, resource iface.Resource, id string) error {
		deleted = string(resource) + "/" + id
		return nil
	}

	output, err := m.execute(t, "users", "delete", "12", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "users/12", deleted)
	assert.Contains(t, output, "Deleted user 12")
}

func TestSupplementUploadImageCommand_Run(t *testing.T) {
	m := newMocks()
	m.resource.UploadImageFunc = func(ctx context.Context, resource iface.Resource, id, path string) (iface.Record, error) {
		assert.Equal(t, iface.Supplements, resource)
		assert.Equal(t, "3", id)
		assert.Equal(t, "./sauce.png", path)
		return iface.Record{"id": float64(3)}, nil
	}

	output, err := m.execute(t, "supplements", "upload-image", "3", "./sauce.png")
	require.NoError(t, err)
	assert.Contains(t, output, "Image uploaded for supplement 3")
}

func TestSingular(t *testing.T) {
	tests := map[iface.Resource]string{
		iface.Categories:    "category",
		iface.Supplements:   "supplement",
		iface.Users:         "user",
		iface.Notifications: "notification",
	}
	for resource, want := range tests {
		if got := singular(resource); got != want {
			t.Errorf("singular(%s) = %q, want %q", resource, got, want)
		}
	}
}

func TestTableColumns(t *testing.T) {
	records := []iface.Record{
		{"id": 1, "zeta": "z", "alpha": "a", "nested": map[string]any{"x": 1}},
	}
	columns := tableColumns(records)
	if strings.Join(columns, ",") != "id,alpha,zeta" {
		t.Errorf("tableColumns() = %v", columns)
	}
}
