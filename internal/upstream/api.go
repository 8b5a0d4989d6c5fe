package upstream

import (
	"context"
	"fmt"
	"net/http"
)

// LoginResult is the decoded outcome of a successful authentication call.
type LoginResult struct {
	Token string
	User  map[string]any
}

// Login calls POST /api/user/login and extracts the token and user document.
// Response envelopes vary between deployments, so both flat and data-wrapped
// shapes are accepted.
func (g *Gateway) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload, err := g.Do(ctx, http.MethodPost, "/api/user/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var body map[string]any
	if err := payload.Decode(&body); err != nil {
		return nil, err
	}

	result := &LoginResult{}
	for _, doc := range []map[string]any{body, childMap(body, "data")} {
		if doc == nil {
			continue
		}
		if result.Token == "" {
			if s, ok := doc["token"].(string); ok {
				result.Token = s
			}
		}
		if result.User == nil {
			result.User = childMap(doc, "user")
		}
	}
	if result.User == nil {
		result.User = body
	}
	return result, nil
}

// ForgotPassword calls POST /api/user/forgot-password.
func (g *Gateway) ForgotPassword(ctx context.Context, email string) error {
	_, err := g.Do(ctx, http.MethodPost, "/api/user/forgot-password", map[string]string{"email": email})
	return err
}

// ResetPassword calls POST /api/user/reset-password.
func (g *Gateway) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := g.Do(ctx, http.MethodPost, "/api/user/reset-password", map[string]string{
		"token":    token,
		"password": newPassword,
	})
	return err
}

// AdminDashboard fetches the summary counts document.
func (g *Gateway) AdminDashboard(ctx context.Context) (map[string]any, error) {
	payload, err := g.Do(ctx, http.MethodGet, "/api/dashboard/admin-dashboard", nil)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := payload.Decode(&body); err != nil {
		return nil, err
	}
	if data := childMap(body, "data"); data != nil {
		return data, nil
	}
	return body, nil
}

// ListCollection fetches a resource collection as raw documents.
func (g *Gateway) ListCollection(ctx context.Context, path string) ([]map[string]any, error) {
	payload, err := g.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var asList []map[string]any
	if err := payload.Decode(&asList); err == nil {
		return asList, nil
	}

	// Some endpoints wrap the list in an envelope keyed by "data" or by the
	// resource name ("users", "courses", ...).
	var envelope map[string]any
	if err := payload.Decode(&envelope); err != nil {
		return nil, err
	}
	for _, v := range envelope {
		if items, ok := v.([]any); ok {
			out := make([]map[string]any, 0, len(items))
			for _, item := range items {
				if doc, ok := item.(map[string]any); ok {
					out = append(out, doc)
				}
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("no collection found in response for %s", path)
}

// CreateDocument POSTs a new resource document.
func (g *Gateway) CreateDocument(ctx context.Context, path string, doc map[string]any) error {
	_, err := g.Do(ctx, http.MethodPost, path, doc)
	return err
}

// UpdateDocument PUTs an existing resource document.
func (g *Gateway) UpdateDocument(ctx context.Context, path string, doc map[string]any) error {
	_, err := g.Do(ctx, http.MethodPut, path, doc)
	return err
}

// DeleteDocument removes a resource document.
func (g *Gateway) DeleteDocument(ctx context.Context, path string) error {
	_, err := g.Do(ctx, http.MethodDelete, path, nil)
	return err
}

// GetSettings fetches the single settings document.
func (g *Gateway) GetSettings(ctx context.Context) (map[string]any, error) {
	payload, err := g.Do(ctx, http.MethodGet, "/api/settings", nil)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := payload.Decode(&body); err != nil {
		return nil, err
	}
	if data := childMap(body, "data"); data != nil {
		return data, nil
	}
	return body, nil
}

// UpdateSettings replaces the settings document.
func (g *Gateway) UpdateSettings(ctx context.Context, doc map[string]any) error {
	_, err := g.Do(ctx, http.MethodPut, "/api/settings", doc)
	return err
}

func childMap(doc map[string]any, key string) map[string]any {
	if doc == nil {
		return nil
	}
	if child, ok := doc[key].(map[string]any); ok {
		return child
	}
	return nil
}
