package domain

import (
	"context"

	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/storage"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"golang.org/x/exp/slices"
)

var messageFileMimes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
}

type FileDomain interface {
	UploadMessageFile(context.Context, *model.UploadMessageFileRequest) (*model.UploadMessageFileResponse, error)
	UploadServerImage(context.Context, *model.UploadServerImageRequest) (*model.UploadServerImageResponse, error)
}

type fileDomain struct {
	storage storage.Storage
}

func NewFileDomain(storage storage.Storage) *fileDomain {
	return &fileDomain{storage: storage}
}

func (d *fileDomain) UploadMessageFile(
	ctx context.Context, req *model.UploadMessageFileRequest,
) (*model.UploadMessageFileResponse, error) {
	if xcontext.RequestUserID(ctx) == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Need authenticated")
	}

	file, err := common.ReadMultipartFile(ctx, "file")
	if err != nil {
		return nil, err
	}

	if !slices.Contains(messageFileMimes, file.Mime) {
		return nil, errorx.New(errorx.BadRequest, "We just accept images or pdf")
	}

	resp, err := d.storage.Upload(ctx, &storage.UploadObject{
		Prefix:   "messages",
		FileName: file.Name,
		Mime:     file.Mime,
		Data:     file.Data,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload file: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadMessageFileResponse{URL: resp.Url, MimeType: file.Mime}, nil
}

func (d *fileDomain) UploadServerImage(
	ctx context.Context, req *model.UploadServerImageRequest,
) (*model.UploadServerImageResponse, error) {
	if xcontext.RequestUserID(ctx) == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Need authenticated")
	}

	file, err := common.ReadMultipartFile(ctx, "file")
	if err != nil {
		return nil, err
	}

	resp, err := common.ProcessImage(ctx, d.storage, file, "servers", common.ServerImageSizes)
	if err != nil {
		return nil, err
	}

	if len(resp) != len(common.ServerImageSizes) {
		xcontext.Logger(ctx).Errorf("Expected %d uploaded images, got %d",
			len(common.ServerImageSizes), len(resp))
		return nil, errorx.Unknown
	}

	return &model.UploadServerImageResponse{URL: resp[0].Url, ThumbnailURL: resp[1].Url}, nil
}
