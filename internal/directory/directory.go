// Package directory is the client side of the user/role directory
// collaborator that resolves a role name to its member list.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type UserDirectory interface {
	ListUsersWithRole(ctx context.Context, tenantID int, role string) ([]string, error)
}

type httpDirectory struct {
	baseURL string
	client  *http.Client
}

func NewHTTPDirectory(baseURL string) UserDirectory {
	return &httpDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type roleUsersResponse struct {
	Users []string `json:"users"`
}

func (d *httpDirectory) ListUsersWithRole(ctx context.Context, tenantID int, role string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/api/v1/tenants/%d/roles/%s/users", d.baseURL, tenantID, url.PathEscape(role))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d for role %q", resp.StatusCode, role)
	}

	var body roleUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	return body.Users, nil
}
