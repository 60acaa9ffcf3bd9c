package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type ProfileDomain interface {
	Initial(context.Context, *model.InitialProfileRequest) (*model.InitialProfileResponse, error)
	GetMe(context.Context, *model.GetMyProfileRequest) (*model.GetMyProfileResponse, error)
}

type profileDomain struct {
	profileRepo       repository.ProfileRepository
	containerResolver *common.ContainerResolver
}

func NewProfileDomain(
	profileRepo repository.ProfileRepository,
	containerResolver *common.ContainerResolver,
) *profileDomain {
	return &profileDomain{
		profileRepo:       profileRepo,
		containerResolver: containerResolver,
	}
}

// Initial returns the profile of the caller, creating it from the identity claims on the first
// call.
func (d *profileDomain) Initial(
	ctx context.Context, req *model.InitialProfileRequest,
) (*model.InitialProfileResponse, error) {
	identity := xcontext.Identity(ctx)
	if identity.UserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Need authenticated")
	}

	profile, err := d.profileRepo.GetByUserID(ctx, identity.UserID)
	if err == nil {
		return &model.InitialProfileResponse{Profile: model.ConvertProfile(profile)}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get profile: %v", err)
		return nil, errorx.Unknown
	}

	name := identity.Name
	if name == "" {
		name = identity.Email
	}

	profile = &entity.Profile{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   identity.UserID,
		Name:     name,
		ImageURL: identity.ImageURL,
		Email:    identity.Email,
	}

	if err := d.profileRepo.Create(ctx, profile); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create profile: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InitialProfileResponse{Profile: model.ConvertProfile(profile)}, nil
}

func (d *profileDomain) GetMe(
	ctx context.Context, req *model.GetMyProfileRequest,
) (*model.GetMyProfileResponse, error) {
	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	return &model.GetMyProfileResponse{Profile: model.ConvertProfile(profile)}, nil
}
