package main

import (
	"errors"
	"net/http"

	"github.com/questx-lab/harmony/internal/middleware"
	"github.com/questx-lab/harmony/pkg/authenticator"
	"github.com/questx-lab/harmony/pkg/prometheus"
	"github.com/questx-lab/harmony/pkg/router"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadSnowflake()
	s.loadStorage()
	s.loadRealtime()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)

	if s.subscriber != nil {
		if err := s.subscriber.Subscribe(s.ctx); err != nil {
			return err
		}
		defer s.subscriber.Stop(s.ctx)
	}
	defer s.bus.Close()

	s.server = &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(cfg.ApiServer),
	}

	promServer := &http.Server{
		Addr:    cfg.PrometheusServer.Address(),
		Handler: prometheus.NewHandler(),
	}

	var g errgroup.Group
	g.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting prometheus server on %s", promServer.Addr)
		if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting server on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	err := g.Wait()
	xcontext.Logger(s.ctx).Infof("Server stop")
	return err
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)

	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger(cfg.Env))
	s.router.AddCloser(middleware.Prometheus())

	authVerifier := middleware.NewAuthVerifier().
		WithAccessToken(authenticator.NewTokenEngine(cfg.Auth.AccessToken.Secret))
	if cfg.Auth.OIDC.Issuer != "" {
		oidcVerifier, err := authenticator.NewOIDCVerifier(
			s.ctx, cfg.Auth.OIDC.Issuer, cfg.Auth.OIDC.ClientID, cfg.Auth.OIDC.IDField)
		if err != nil {
			panic(err)
		}

		authVerifier = authVerifier.WithIDToken(oidcVerifier)
	}

	authRouter := s.router.Branch()
	authRouter.Before(authVerifier.Middleware())
	{
		// Profile API
		router.POST(authRouter, "/profiles/me", s.profileDomain.Initial)
		router.GET(authRouter, "/profiles/me", s.profileDomain.GetMe)

		// Server API
		router.POST(authRouter, "/servers", s.serverDomain.Create)
		router.GET(authRouter, "/servers", s.serverDomain.GetMyServers)
		router.GET(authRouter, "/servers/{server_id}", s.serverDomain.Get)
		router.PATCH(authRouter, "/servers/{server_id}", s.serverDomain.Update)
		router.DELETE(authRouter, "/servers/{server_id}", s.serverDomain.Delete)
		router.PATCH(authRouter, "/servers/{server_id}/invite-code", s.serverDomain.RegenerateInviteCode)
		router.PATCH(authRouter, "/servers/{server_id}/leave", s.serverDomain.Leave)
		router.POST(authRouter, "/invite/{invite_code}", s.serverDomain.Join)

		// Channel API
		router.POST(authRouter, "/channels", s.channelDomain.Create)
		router.PATCH(authRouter, "/channels/{channel_id}", s.channelDomain.Update)
		router.DELETE(authRouter, "/channels/{channel_id}", s.channelDomain.Delete)

		// Member API
		router.PATCH(authRouter, "/members/{member_id}", s.memberDomain.UpdateRole)
		router.DELETE(authRouter, "/members/{member_id}", s.memberDomain.Kick)

		// Conversation API
		router.POST(authRouter, "/conversations", s.conversationDomain.GetOrCreate)

		// Message API
		router.GET(authRouter, "/messages", s.messageDomain.GetList)
		router.PATCH(authRouter, "/messages/{message_id}", s.messageDomain.Edit)
		router.DELETE(authRouter, "/messages/{message_id}", s.messageDomain.Delete)
		router.GET(authRouter, "/direct-messages", s.messageDomain.GetList)
		router.PATCH(authRouter, "/direct-messages/{message_id}", s.messageDomain.Edit)
		router.DELETE(authRouter, "/direct-messages/{message_id}", s.messageDomain.Delete)

		// File API
		router.POST(authRouter, "/uploadMessageFile", s.fileDomain.UploadMessageFile)
		router.POST(authRouter, "/uploadServerImage", s.fileDomain.UploadServerImage)

		// Realtime API
		router.Websocket(authRouter, "/realtime", s.realtimeServer.ServeRealtime)
	}

	// Sending messages is limited per user.
	sendRouter := authRouter.Branch()
	sendRouter.Before(middleware.NewRateLimiter(cfg.Chat.MessageRateLimit).Middleware())
	{
		router.POST(sendRouter, "/messages", s.messageDomain.Create)
		router.POST(sendRouter, "/direct-messages", s.messageDomain.Create)
	}
}
