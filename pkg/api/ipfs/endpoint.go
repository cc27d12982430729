package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yours-lab/backend/config"
	"github.com/yours-lab/backend/pkg/api"
)

// Endpoint uploads token metadata to an IPFS HTTP API node (infura
// style, project id/secret as basic auth).
type Endpoint struct {
	projectID      string
	projectSecret  string
	gatewayBaseURL string

	apiGenerator api.Generator
}

func New(cfg config.MetadataConfigs) *Endpoint {
	return &Endpoint{
		projectID:      cfg.ProjectID,
		projectSecret:  cfg.ProjectSecret,
		gatewayBaseURL: cfg.GatewayBaseURL,
		apiGenerator:   api.NewGenerator(cfg.Endpoint),
	}
}

type metadataDocument struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Benefits    []Benefit `json:"benefits,omitempty"`
}

func (e *Endpoint) UploadMetadata(
	ctx context.Context, name, description, image string, benefits []Benefit,
) (string, error) {
	doc, err := json.Marshal(metadataDocument{
		Name:        name,
		Description: description,
		Image:       image,
		Benefits:    benefits,
	})
	if err != nil {
		return "", err
	}

	return e.add(ctx, "metadata.json", doc)
}

func (e *Endpoint) UploadBenefits(ctx context.Context, benefits []Benefit) (string, error) {
	doc, err := json.Marshal(benefits)
	if err != nil {
		return "", err
	}

	return e.add(ctx, "benefits.json", doc)
}

func (e *Endpoint) add(ctx context.Context, name string, contents []byte) (string, error) {
	resp, err := e.apiGenerator.New("/api/v0/add").
		Body(api.FormData{
			Files: []api.FormFile{
				{Field: "file", Name: name, Contents: contents},
			},
		}).
		POST(ctx, api.BasicAuth(e.projectID, e.projectSecret))
	if err != nil {
		return "", err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("fail to push to ipfs")
	}

	hash, err := body.GetString("Hash")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", e.gatewayBaseURL, hash), nil
}
