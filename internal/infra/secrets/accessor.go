// internal/infra/secrets/accessor.go
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var ErrNotConfigured = errors.New("secrets: accessor not configured")

// Accessor resolves secret values (DB password, payment webhook secret)
// from GCP Secret Manager.
type Accessor struct {
	client    *secretmanager.Client
	projectID string
}

func NewAccessor(ctx context.Context, projectID string) (*Accessor, error) {
	prj := strings.TrimSpace(projectID)
	if prj == "" {
		return nil, errors.New("secrets: projectID is empty")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secrets: new client: %w", err)
	}
	return &Accessor{client: client, projectID: prj}, nil
}

// Access returns the latest version of the named secret, trimmed.
func (a *Accessor) Access(ctx context.Context, secretID string) (string, error) {
	if a == nil || a.client == nil {
		return "", ErrNotConfigured
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("secrets: secretID is empty")
	}

	name := "projects/" + a.projectID + "/secrets/" + sid + "/versions/latest"
	resp, err := a.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("secrets: access %s: %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("secrets: empty payload for %s", name)
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

func (a *Accessor) Close() error {
	if a == nil || a.client == nil {
		return nil
	}
	return a.client.Close()
}
