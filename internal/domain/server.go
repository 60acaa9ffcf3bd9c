package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type ServerDomain interface {
	Create(context.Context, *model.CreateServerRequest) (*model.CreateServerResponse, error)
	Get(context.Context, *model.GetServerRequest) (*model.GetServerResponse, error)
	GetMyServers(context.Context, *model.GetMyServersRequest) (*model.GetMyServersResponse, error)
	Update(context.Context, *model.UpdateServerRequest) (*model.UpdateServerResponse, error)
	Delete(context.Context, *model.DeleteServerRequest) (*model.DeleteServerResponse, error)
	RegenerateInviteCode(context.Context, *model.RegenerateInviteCodeRequest) (*model.RegenerateInviteCodeResponse, error)
	Join(context.Context, *model.JoinServerRequest) (*model.JoinServerResponse, error)
	Leave(context.Context, *model.LeaveServerRequest) (*model.LeaveServerResponse, error)
}

type serverDomain struct {
	serverRepo        repository.ServerRepository
	channelRepo       repository.ChannelRepository
	memberRepo        repository.MemberRepository
	containerResolver *common.ContainerResolver
	roleVerifier      *common.MemberRoleVerifier
}

func NewServerDomain(
	serverRepo repository.ServerRepository,
	channelRepo repository.ChannelRepository,
	memberRepo repository.MemberRepository,
	containerResolver *common.ContainerResolver,
	roleVerifier *common.MemberRoleVerifier,
) *serverDomain {
	return &serverDomain{
		serverRepo:        serverRepo,
		channelRepo:       channelRepo,
		memberRepo:        memberRepo,
		containerResolver: containerResolver,
		roleVerifier:      roleVerifier,
	}
}

// Create makes a server with its general channel and the caller as admin.
func (d *serverDomain) Create(
	ctx context.Context, req *model.CreateServerRequest,
) (*model.CreateServerResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty server name")
	}

	if req.ImageURL != "" && !isAbsoluteURL(req.ImageURL) {
		return nil, errorx.New(errorx.BadRequest, "Invalid image url")
	}

	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	server := &entity.Server{
		Base:       entity.Base{ID: uuid.NewString()},
		Name:       req.Name,
		ImageURL:   req.ImageURL,
		InviteCode: uuid.NewString(),
		ProfileID:  profile.ID,
	}

	general := entity.Channel{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      entity.GeneralChannelName,
		Type:      entity.TextChannel,
		ProfileID: profile.ID,
		ServerID:  server.ID,
	}

	admin := entity.Member{
		ID:        uuid.NewString(),
		Role:      entity.AdminRole,
		ProfileID: profile.ID,
		ServerID:  server.ID,
	}

	err = xcontext.DB(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := xcontext.WithDB(ctx, tx)
		if err := d.serverRepo.Create(txCtx, server); err != nil {
			return err
		}

		if err := d.channelRepo.Create(txCtx, &general); err != nil {
			return err
		}

		return d.memberRepo.Create(txCtx, &admin)
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create server: %v", err)
		return nil, errorx.Unknown
	}

	admin.Profile = *profile
	server.Channels = []entity.Channel{general}
	server.Members = []entity.Member{admin}

	return &model.CreateServerResponse{Server: model.ConvertServer(server, true)}, nil
}

func (d *serverDomain) Get(
	ctx context.Context, req *model.GetServerRequest,
) (*model.GetServerResponse, error) {
	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	member, err := d.roleVerifier.Verify(ctx, req.ServerID, profile.ID, entity.GuestRole)
	if err != nil {
		return nil, err
	}

	server, err := d.serverRepo.GetDetailByID(ctx, req.ServerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found server")
		}

		xcontext.Logger(ctx).Errorf("Cannot get server: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.ConvertServer(server, member.Role.AtLeast(entity.ModeratorRole))
	return &model.GetServerResponse{Server: resp}, nil
}

func (d *serverDomain) GetMyServers(
	ctx context.Context, req *model.GetMyServersRequest,
) (*model.GetMyServersResponse, error) {
	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	servers, err := d.serverRepo.GetListByProfileID(ctx, profile.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get server list: %v", err)
		return nil, errorx.Unknown
	}

	clientServers := []model.Server{}
	for i := range servers {
		clientServers = append(clientServers,
			model.ConvertServer(&servers[i], servers[i].ProfileID == profile.ID))
	}

	return &model.GetMyServersResponse{Servers: clientServers}, nil
}

func (d *serverDomain) Update(
	ctx context.Context, req *model.UpdateServerRequest,
) (*model.UpdateServerResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" && req.ImageURL == "" {
		return nil, errorx.New(errorx.BadRequest, "Nothing to update")
	}

	if req.ImageURL != "" && !isAbsoluteURL(req.ImageURL) {
		return nil, errorx.New(errorx.BadRequest, "Invalid image url")
	}

	server, err := d.ownedServer(ctx, req.ServerID)
	if err != nil {
		return nil, err
	}

	err = d.serverRepo.UpdateByID(ctx, server.ID, entity.Server{Name: req.Name, ImageURL: req.ImageURL})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update server: %v", err)
		return nil, errorx.Unknown
	}

	if req.Name != "" {
		server.Name = req.Name
	}

	if req.ImageURL != "" {
		server.ImageURL = req.ImageURL
	}

	return &model.UpdateServerResponse{Server: model.ConvertServer(server, true)}, nil
}

func (d *serverDomain) Delete(
	ctx context.Context, req *model.DeleteServerRequest,
) (*model.DeleteServerResponse, error) {
	server, err := d.ownedServer(ctx, req.ServerID)
	if err != nil {
		return nil, err
	}

	if err := d.serverRepo.DeleteByID(ctx, server.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete server: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteServerResponse{}, nil
}

func (d *serverDomain) RegenerateInviteCode(
	ctx context.Context, req *model.RegenerateInviteCodeRequest,
) (*model.RegenerateInviteCodeResponse, error) {
	server, err := d.ownedServer(ctx, req.ServerID)
	if err != nil {
		return nil, err
	}

	server.InviteCode = uuid.NewString()
	if err := d.serverRepo.UpdateInviteCode(ctx, server.ID, server.InviteCode); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update invite code: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegenerateInviteCodeResponse{Server: model.ConvertServer(server, true)}, nil
}

// Join adds the caller to the server of the invite code as a guest. Joining a server twice
// returns the same server.
func (d *serverDomain) Join(
	ctx context.Context, req *model.JoinServerRequest,
) (*model.JoinServerResponse, error) {
	if req.InviteCode == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty invite code")
	}

	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	server, err := d.serverRepo.GetByInviteCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Invalid invite code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get server by invite code: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.memberRepo.Get(ctx, server.ID, profile.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
			return nil, errorx.Unknown
		}

		err := d.memberRepo.Create(ctx, &entity.Member{
			ID:        uuid.NewString(),
			Role:      entity.GuestRole,
			ProfileID: profile.ID,
			ServerID:  server.ID,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create member: %v", err)
			return nil, errorx.Unknown
		}
	}

	detail, err := d.serverRepo.GetDetailByID(ctx, server.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get server: %v", err)
		return nil, errorx.Unknown
	}

	return &model.JoinServerResponse{Server: model.ConvertServer(detail, false)}, nil
}

func (d *serverDomain) Leave(
	ctx context.Context, req *model.LeaveServerRequest,
) (*model.LeaveServerResponse, error) {
	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	member, err := d.roleVerifier.Verify(ctx, req.ServerID, profile.ID, entity.GuestRole)
	if err != nil {
		return nil, err
	}

	server, err := d.serverRepo.GetByID(ctx, req.ServerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found server")
		}

		xcontext.Logger(ctx).Errorf("Cannot get server: %v", err)
		return nil, errorx.Unknown
	}

	if server.ProfileID == profile.ID {
		return nil, errorx.New(errorx.BadRequest, "The owner cannot leave the server")
	}

	if err := d.memberRepo.Delete(ctx, server.ID, member.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LeaveServerResponse{}, nil
}

// ownedServer returns the server if the caller owns it.
func (d *serverDomain) ownedServer(ctx context.Context, serverID string) (*entity.Server, error) {
	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	server, err := d.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found server")
		}

		xcontext.Logger(ctx).Errorf("Cannot get server: %v", err)
		return nil, errorx.Unknown
	}

	if server.ProfileID != profile.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can do this")
	}

	return server, nil
}
