package ipfs

import (
	"context"
)

// Benefit is the holder-facing utility attached to a token, serialized
// into its metadata document.
type Benefit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type IEndpoint interface {
	UploadMetadata(ctx context.Context, name, description, image string, benefits []Benefit) (string, error)
	UploadBenefits(ctx context.Context, benefits []Benefit) (string, error)
}
