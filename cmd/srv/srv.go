package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/questx-lab/harmony/config"
	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/domain"
	"github.com/questx-lab/harmony/internal/domain/realtime"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/migration"
	"github.com/questx-lab/harmony/pkg/kafka"
	"github.com/questx-lab/harmony/pkg/logger"
	"github.com/questx-lab/harmony/pkg/pubsub"
	"github.com/questx-lab/harmony/pkg/router"
	"github.com/questx-lab/harmony/pkg/storage"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"github.com/questx-lab/harmony/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient xredis.Client
	storage     storage.Storage

	bus        *pubsub.Bus
	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber

	profileRepo      repository.ProfileRepository
	serverRepo       repository.ServerRepository
	memberRepo       repository.MemberRepository
	channelRepo      repository.ChannelRepository
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository

	containerResolver *common.ContainerResolver
	roleVerifier      *common.MemberRoleVerifier

	profileDomain      domain.ProfileDomain
	serverDomain       domain.ServerDomain
	channelDomain      domain.ChannelDomain
	memberDomain       domain.MemberDomain
	conversationDomain domain.ConversationDomain
	messageDomain      domain.MessageDomain
	fileDomain         domain.FileDomain
	realtimeServer     *realtime.Server

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewZapLogger(cfg.LogLevel, cfg.LogJSON))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(), // data source name
			DefaultStringSize:         256,                    // default size for string fields
			DisableDatetimePrecision:  true,                   // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,                   // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,                   // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false,                  // auto configure based on currently MySQL version
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		panic(fmt.Sprintf("unsupported database driver %q", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadSnowflake() {
	node, err := snowflake.NewNode(xcontext.Configs(s.ctx).SnowflakeNode)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadStorage() {
	var err error
	s.storage, err = storage.NewS3Storage(xcontext.Configs(s.ctx).Storage)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
}

// loadRealtime wires the bus to the configured transport. With a transport, mutations are
// published to it and the packs received back are replayed on the local bus, so every process
// delivers every event to its own sessions.
func (s *srv) loadRealtime() {
	cfg := xcontext.Configs(s.ctx)
	s.bus = pubsub.NewBus()

	switch cfg.Realtime.Transport {
	case "", "local":
		s.publisher = s.bus

	case "redis":
		if s.redisClient == nil {
			s.loadRedisClient()
		}

		s.publisher = xredis.NewPublisher(s.redisClient, cfg.Realtime.ChannelPrefix)
		s.subscriber = xredis.NewSubscriber(s.redisClient, cfg.Realtime.ChannelPrefix, s.bus.Deliver)

	case "kafka":
		hostname, _ := os.Hostname()
		publisher, err := kafka.NewPublisher(hostname, cfg.Kafka.Addrs, cfg.Kafka.Topic)
		if err != nil {
			panic(err)
		}

		subscriber, err := kafka.NewSubscriber(
			fmt.Sprintf("%s-%s", cfg.Kafka.GroupPrefix, uuid.NewString()),
			cfg.Kafka.Addrs,
			[]string{cfg.Kafka.Topic},
			s.bus.Deliver,
		)
		if err != nil {
			panic(err)
		}

		s.publisher = publisher
		s.subscriber = subscriber

	default:
		panic(fmt.Sprintf("unsupported realtime transport %q", cfg.Realtime.Transport))
	}
}

func (s *srv) loadRepos() {
	s.profileRepo = repository.NewProfileRepository(s.redisClient)
	s.serverRepo = repository.NewServerRepository()
	s.memberRepo = repository.NewMemberRepository()
	s.channelRepo = repository.NewChannelRepository()
	s.conversationRepo = repository.NewConversationRepository()
	s.messageRepo = repository.NewMessageRepository()
}

func (s *srv) loadDomains() {
	s.containerResolver = common.NewContainerResolver(
		s.profileRepo, s.channelRepo, s.conversationRepo, s.memberRepo)
	s.roleVerifier = common.NewMemberRoleVerifier(s.memberRepo)

	s.profileDomain = domain.NewProfileDomain(s.profileRepo, s.containerResolver)
	s.serverDomain = domain.NewServerDomain(
		s.serverRepo, s.channelRepo, s.memberRepo, s.containerResolver, s.roleVerifier)
	s.channelDomain = domain.NewChannelDomain(s.channelRepo, s.containerResolver, s.roleVerifier)
	s.memberDomain = domain.NewMemberDomain(s.serverRepo, s.memberRepo, s.containerResolver)
	s.conversationDomain = domain.NewConversationDomain(
		s.conversationRepo, s.memberRepo, s.containerResolver, s.roleVerifier)
	s.messageDomain = domain.NewMessageDomain(s.messageRepo, s.containerResolver, s.publisher)
	s.fileDomain = domain.NewFileDomain(s.storage)
	s.realtimeServer = realtime.NewServer(s.bus, s.containerResolver)
}
