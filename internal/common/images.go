package common

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/storage"
	"github.com/yours-lab/backend/pkg/xcontext"
)

// ProcessImage reads the multipart file under key, re-encodes it and
// uploads it. Images wider or taller than the configured crop bounds
// are scaled down first.
func ProcessImage(ctx context.Context, fileStorage storage.Storage, key string) (*storage.UploadResponse, error) {
	cfg := xcontext.Configs(ctx)
	req := xcontext.HTTPRequest(ctx)
	if err := req.ParseMultipartForm(cfg.File.MaxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the File")
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	img, err := decodeImg(mime, file)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "%v", err)
	}

	maxW, maxH := int(cfg.File.AvatarCropWidth), int(cfg.File.AvatarCropHeight)
	bounds := img.Bounds()
	if maxW > 0 && maxH > 0 && (bounds.Dx() > maxW || bounds.Dy() > maxH) {
		img = resize.Thumbnail(uint(maxW), uint(maxH), img, resize.Lanczos2)
	}

	b, err := encodeImg(mime, img)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode image: %v", err)
		return nil, errorx.Unknown
	}

	uresp, err := fileStorage.Upload(ctx, &storage.UploadObject{
		Bucket:   cfg.Storage.Bucket,
		Prefix:   "images",
		FileName: header.Filename,
		Mime:     mime,
		Data:     b,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.Unknown
	}

	return uresp, nil
}

func decodeImg(mime string, data io.Reader) (img image.Image, err error) {
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(data)
	case "image/png", "application/octet-stream":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	default:
		return nil, fmt.Errorf("We just accept jpeg, gif or png")
	}
	return img, err
}

func encodeImg(mime string, img image.Image) (b []byte, err error) {
	buf := new(bytes.Buffer)

	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "image/png", "application/octet-stream":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("We just accept jpeg, gif or png")
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), err
}
