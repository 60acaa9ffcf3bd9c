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
	"net/http"

	"github.com/nfnt/resize"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/storage"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

type size struct {
	w int
	h int
}

func (s size) String() string {
	return fmt.Sprintf("%dx%d", s.w, s.h)
}

var (
	// ServerImageSizes lists the stored variants of a server image, the first one is the main
	// image and the second one the thumbnail.
	ServerImageSizes = []size{
		{w: 512, h: 512},
		{w: 128, h: 128},
	}
)

// UploadedFile is a file read from a multipart request.
type UploadedFile struct {
	Name string
	Mime string
	Data []byte
}

// ReadMultipartFile reads the form file named key, bounded by the configured max size. The
// mime type is sniffed from the content when the client does not send a specific one.
func ReadMultipartFile(ctx context.Context, key string) (*UploadedFile, error) {
	maxSize := xcontext.Configs(ctx).File.MaxSize
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	if err := req.ParseMultipartForm(maxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the file")
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, errorx.New(errorx.BadRequest, "File is too large")
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read file: %v", err)
		return nil, errorx.Unknown
	}

	if int64(len(data)) > maxSize {
		return nil, errorx.New(errorx.BadRequest, "File is too large")
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}

	return &UploadedFile{Name: header.Filename, Mime: mime, Data: data}, nil
}

// ProcessImage resizes the image to every size in sizes and uploads all variants under prefix.
// Responses are in the same order as sizes.
func ProcessImage(
	ctx context.Context, fileStorage storage.Storage, file *UploadedFile, prefix string, sizes []size,
) ([]*storage.UploadResponse, error) {
	img, err := decodeImg(file.Mime, bytes.NewReader(file.Data))
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "We just accept jpeg, gif or png")
	}

	objs := make([]*storage.UploadObject, 0, len(sizes))
	for _, size := range sizes {
		img := resize.Resize(uint(size.w), uint(size.h), img, resize.Lanczos2)
		b, err := encodeImg(file.Mime, img)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot encode image: %v", err)
			return nil, errorx.Unknown
		}

		objs = append(objs, &storage.UploadObject{
			Prefix:   prefix,
			FileName: fmt.Sprintf("%s-%s", size, file.Name),
			Mime:     file.Mime,
			Data:     b,
		})
	}

	uresp, err := fileStorage.BulkUpload(ctx, objs)
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
	case "image/png":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	default:
		return nil, fmt.Errorf("unsupported image type %s", mime)
	}
	return img, err
}

func encodeImg(mime string, img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)

	var err error
	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "image/png":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("unsupported image type %s", mime)
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
