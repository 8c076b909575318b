package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"luxgrid-data/internal/config"
	"luxgrid-data/internal/database"
	"luxgrid-data/internal/domain"
	httpapi "luxgrid-data/internal/http"
	"luxgrid-data/internal/logger"
	"luxgrid-data/internal/mqtt"
	"luxgrid-data/internal/repository"
	"luxgrid-data/internal/rules"
	"luxgrid-data/internal/service"
	"luxgrid-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "luxgrid-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kv := store.NewRedisKV(redisClient)

	// repository 装配：DB 可用走 Postgres，否则回退内存 repo 支持联测
	var db *sql.DB
	var (
		sitesRepo     repository.SitesRepository
		locationsRepo repository.LocationsRepository
		zonesRepo     repository.ZonesRepository
		devicesRepo   repository.DevicesRepository
		peopleRepo    repository.PeopleRepository
		groupsRepo    repository.GroupsRepository
		rulesRepo     repository.RulesRepository
	)
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for luxgrid-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repos", zap.Error(err))
		}
	}
	if db != nil {
		sitesRepo = repository.NewPostgresSitesRepo(db)
		locationsRepo = repository.NewPostgresLocationsRepo(db)
		zonesRepo = repository.NewPostgresZonesRepo(db)
		devicesRepo = repository.NewPostgresDevicesRepo(db)
		peopleRepo = repository.NewPostgresPeopleRepo(db)
		groupsRepo = repository.NewPostgresGroupsRepo(db)
		rulesRepo = repository.NewPostgresRulesRepo(db)
	} else {
		memSites := repository.NewMemorySitesRepo()
		// Demo 站点，便于前端联测直接可用
		if os.Getenv("SEED_DEMO_SITE") != "false" {
			if id, err := memSites.CreateSite(context.Background(), &domain.Site{
				SiteName: "Demo Store",
				Timezone: "UTC",
				Status:   domain.SiteStatusActive,
			}); err == nil {
				log.Info("seeded demo site", zap.String("site_id", id))
			}
		}
		sitesRepo = memSites
		locationsRepo = repository.NewMemoryLocationsRepo()
		zonesRepo = repository.NewMemoryZonesRepo()
		devicesRepo = repository.NewMemoryDevicesRepo()
		peopleRepo = repository.NewMemoryPeopleRepo()
		groupsRepo = repository.NewMemoryGroupsRepo()
		rulesRepo = repository.NewMemoryRulesRepo()
	}

	evaluator := rules.NewEvaluator(log)

	deviceSvc := service.NewDeviceService(devicesRepo, log)
	ruleSvc := service.NewRuleService(rulesRepo, evaluator, log)
	storageClient := service.NewStorageClient(
		cfg.Storage.Endpoint, cfg.Storage.Bucket,
		cfg.Storage.AccessKey, cfg.Storage.SecretKey, log)
	migrateSvc := service.NewMigrateService(db, log)

	router := httpapi.NewRouter(log)
	router.RegisterAdminSiteRoutes(httpapi.NewSiteHandler(service.NewSiteService(sitesRepo, log)))
	router.RegisterAdminLocationRoutes(httpapi.NewLocationHandler(service.NewLocationService(locationsRepo, log), storageClient))
	router.RegisterAdminZoneRoutes(httpapi.NewZoneHandler(service.NewZoneService(zonesRepo, log)))
	router.RegisterAdminDeviceRoutes(httpapi.NewDeviceHandler(deviceSvc))
	router.RegisterAdminPersonRoutes(httpapi.NewPersonHandler(service.NewPersonService(peopleRepo, log)))
	router.RegisterAdminGroupRoutes(httpapi.NewGroupHandler(service.NewGroupService(groupsRepo, peopleRepo, devicesRepo, log)))
	router.RegisterRuleRoutes(httpapi.NewRuleHandler(ruleSvc))
	router.RegisterRuntimeRoutes(httpapi.NewRuntimeHandler(kv, deviceSvc))
	router.RegisterSystemRoutes(httpapi.NewSystemHandler(migrateSvc, storageClient, log))

	// MQTT 遥测接入（可选）
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		broker := mqtt.NewTelemetryBroker(devicesRepo, rulesRepo, kv, evaluator, log)
		c, err := mqtt.NewClient(&cfg.MQTT, log)
		if err != nil {
			log.Warn("MQTT enabled but connection failed, telemetry intake disabled", zap.Error(err))
		} else if err := c.Subscribe(cfg.MQTT.Topic, cfg.MQTT.QoS, broker.HandleMessage); err != nil {
			log.Warn("MQTT subscribe failed, telemetry intake disabled", zap.Error(err))
			c.Disconnect()
		} else {
			mqttClient = c
			log.Info("MQTT telemetry intake started", zap.String("topic", cfg.MQTT.Topic))
		}
	}

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server exited", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}
