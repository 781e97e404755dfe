package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/database/mongoclient"
	"github.com/x-xyz/marketplace/base/database/redisclient"
	"github.com/x-xyz/marketplace/base/goroutine"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	bValidator "github.com/x-xyz/marketplace/base/validator"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/custody"
	"github.com/x-xyz/marketplace/domain/listing"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/domain/payout"
	"github.com/x-xyz/marketplace/domain/proceeds"
	mmiddleware "github.com/x-xyz/marketplace/middleware"
	"github.com/x-xyz/marketplace/service/lock"
	"github.com/x-xyz/marketplace/service/query"
	"github.com/x-xyz/marketplace/service/redis"
	auth_delivery "github.com/x-xyz/marketplace/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/marketplace/stores/auth/usecase"
	custody_delivery "github.com/x-xyz/marketplace/stores/custody/delivery/http"
	custody_repository "github.com/x-xyz/marketplace/stores/custody/repository"
	custody_usecase "github.com/x-xyz/marketplace/stores/custody/usecase"
	event_notifier "github.com/x-xyz/marketplace/stores/event/notifier"
	event_repository "github.com/x-xyz/marketplace/stores/event/repository"
	event_usecase "github.com/x-xyz/marketplace/stores/event/usecase"
	hc_delivery "github.com/x-xyz/marketplace/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/marketplace/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/marketplace/stores/healthcheck/usecase"
	listing_repository "github.com/x-xyz/marketplace/stores/listing/repository"
	marketplace_delivery "github.com/x-xyz/marketplace/stores/marketplace/delivery/http"
	marketplace_usecase "github.com/x-xyz/marketplace/stores/marketplace/usecase"
	payout_repository "github.com/x-xyz/marketplace/stores/payout/repository"
	payout_usecase "github.com/x-xyz/marketplace/stores/payout/usecase"
	proceeds_repository "github.com/x-xyz/marketplace/stores/proceeds/repository"
)

const (
	storageMongo = "mongo"
	lockRedis    = "redis"
)

var configFile = pflag.String("config", "infra/configs/config.yaml", "path of the yaml config")

func init() {
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	log.Init(viper.GetBool("debug"), viper.GetString("app_name"))
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

type repos struct {
	custody  custody.Repo
	listing  listing.Repo
	proceeds proceeds.Repo
	payout   payout.Repo
	event    marketplace.EventRepo
}

func memoryRepos() repos {
	return repos{
		custody:  custody_repository.NewMemory(),
		listing:  listing_repository.NewMemory(),
		proceeds: proceeds_repository.NewMemory(),
		payout:   payout_repository.NewMemory(),
		event:    event_repository.NewMemory(),
	}
}

func mongoRepos(c ctx.Ctx, q query.Mongo) repos {
	ensures := map[string]func(ctx.Ctx, query.Mongo) error{
		"custody":  custody_repository.EnsureIndexes,
		"listing":  listing_repository.EnsureIndexes,
		"proceeds": proceeds_repository.EnsureIndexes,
		"payout":   payout_repository.EnsureIndexes,
		"event":    event_repository.EnsureIndexes,
	}
	for name, ensure := range ensures {
		if err := ensure(c, q); err != nil {
			c.WithFields(log.Fields{"repo": name, "err": err}).Panic("EnsureIndexes failed")
		}
	}
	return repos{
		custody:  custody_repository.NewMongo(q),
		listing:  listing_repository.NewMongo(q),
		proceeds: proceeds_repository.NewMongo(q),
		payout:   payout_repository.NewMongo(q),
		event:    event_repository.NewMongo(q),
	}
}

func main() {
	context := ctx.Background()
	met := metrics.New("marketplace")

	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware().WithMetrics(metrics.New("http"))
	e.Use(middL.AddContext())
	e.Use(middL.ResponseLogger())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	// init storage
	var (
		rs     repos
		pinger hc_repo.Pinger
	)
	switch driver := viper.GetString("storage.driver"); driver {
	case storageMongo:
		context.Info("init mongo")
		mongoCfg := mongoclient.Config{}
		if err := viper.UnmarshalKey("mongo", &mongoCfg); err != nil {
			context.WithField("err", err).Panic("UnmarshalKey mongo failed")
		}
		mongoClient := mongoclient.MustConnectMongoClient(mongoCfg)
		q := query.New(mongoClient, metrics.New("mongo"), viper.GetBool("mongo.checkIndex"))
		rs = mongoRepos(context, q)
		pinger = mongoClient
	default:
		context.WithField("driver", driver).Info("init memory storage")
		rs = memoryRepos()
	}

	// init Redis service
	var redisCache redis.Service
	if redisCacheURI := viper.GetString("redis_cache.uri"); redisCacheURI != "" {
		context.Info("init redis cache")
		redisCacheName := viper.GetString("redis_cache.name")
		redisCachePool := redisclient.MustConnectRedis(redisCacheURI, viper.GetString("redis_cache.password"), redisclient.RedisParam{
			PoolMultiplier: viper.GetFloat64("redis_cache.poolMultiplier"),
			Retry:          true,
		})
		redisCache = redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
			Src: redisCachePool,
		})
	}

	var locker lock.Locker
	switch viper.GetString("lock.driver") {
	case lockRedis:
		if redisCache == nil {
			context.Panic("redis lock requires redis_cache.uri")
		}
		locker = lock.NewRedis(redisCache, "marketplace", viper.GetDuration("lock.ttl"))
	default:
		locker = lock.NewLocal()
	}

	collections := []custody.Collection{}
	if err := viper.UnmarshalKey("collections", &collections); err != nil {
		context.WithField("err", err).Panic("UnmarshalKey collections failed")
	}
	operator := domain.Address(viper.GetString("marketplace.operator")).ToLower()

	httpCache := mmiddleware.NewHttpCache(redisCache, viper.GetDuration("listing.cacheDuration"))

	notifiers := []marketplace.Notifier{
		event_notifier.NewLog(),
		event_notifier.NewCacheInvalidator(httpCache),
	}
	if botKey := viper.GetString("discord.botKey"); botKey != "" {
		discord, err := event_notifier.NewDiscord(botKey, viper.GetString("discord.channelId"))
		if err != nil {
			context.WithField("err", err).Panic("NewDiscord failed")
		}
		notifiers = append(notifiers, discord)
	}
	publisher := event_usecase.New(rs.event, metrics.New("event"), notifiers...)

	// init usecase
	custodyUC := custody_usecase.New(rs.custody, locker, collections)
	market := marketplace_usecase.New(marketplace_usecase.Config{
		Listings:  rs.listing,
		Proceeds:  rs.proceeds,
		Oracle:    custody_usecase.NewOracle(custodyUC, operator),
		Sender:    payout_usecase.NewLedgerSender(rs.payout),
		Publisher: publisher,
		Events:    rs.event,
		Locker:    locker,
		LockWait:  viper.GetDuration("lock.wait"),
		Operator:  operator,
		Metrics:   met,
	})
	hc := hc_usecase.New(hc_repo.New(pinger, redisCache))
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), viper.GetString("auth.signatureMsg"))
	authMiddleware := auth_middleware.New(auth)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth)
	custody_delivery.New(e, custodyUC, authMiddleware)
	marketplace_delivery.New(e, market, authMiddleware, httpCache)

	done := goroutine.RecoverableGo(func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}, goroutine.WithName("api"))

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		log.Log().WithField("signal", sig).Info("received signal")
	case evt := <-done:
		if evt != nil {
			log.Log().WithField("panic", evt.Panic).Error("server goroutine panicked")
		}
	}

	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
	publisher.Close()
	log.Sync()
}
