package domain

import (
	"context"

	"github.com/yours-lab/backend/internal/common"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/pkg/storage"
)

type FileDomain interface {
	UploadImage(context.Context, *model.UploadFileRequest) (*model.UploadFileResponse, error)
}

type fileDomain struct {
	fileStorage storage.Storage
}

func NewFileDomain(fileStorage storage.Storage) *fileDomain {
	return &fileDomain{fileStorage: fileStorage}
}

func (d *fileDomain) UploadImage(
	ctx context.Context, req *model.UploadFileRequest,
) (*model.UploadFileResponse, error) {
	resp, err := common.ProcessImage(ctx, d.fileStorage, "image")
	if err != nil {
		return nil, err
	}

	return &model.UploadFileResponse{Url: resp.Url, FileName: resp.FileName}, nil
}
