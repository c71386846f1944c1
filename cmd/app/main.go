package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"log/slog"

	"oshxona/cmd"
	httpadapter "oshxona/internal/adapters/in/http"
	"oshxona/internal/adapters/in/ws"
	amqpadapter "oshxona/internal/adapters/out/amqp"
	"oshxona/internal/adapters/out/postgres/branchrepo"
	"oshxona/internal/adapters/out/postgres/inventoryrepo"
	"oshxona/internal/adapters/out/postgres/orderrepo"
	"oshxona/internal/core/ports"
	"oshxona/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	hub := ws.NewHub(logger)
	hub.Start()
	defer hub.Stop()

	bus := ports.NotificationBus(hub)
	if configs.RabbitURL != "" {
		conn, err := amqp.Dial(configs.RabbitURL)
		if err != nil {
			log.Fatalf("Error connecting to RabbitMQ: %v", err)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			log.Fatalf("Error opening RabbitMQ channel: %v", err)
		}
		defer ch.Close()

		publisher, err := amqpadapter.NewPublisher(ch, logger)
		if err != nil {
			log.Fatalf("Error declaring RabbitMQ exchange: %v", err)
		}
		bus = amqpadapter.FanOutBus{hub, publisher}
	}

	ledger := inventoryrepo.NewGormInventoryLedger(gormDB)
	root := cmd.NewCompositionRoot(configs, gormDB, ledger, bus, logger)

	jobManager := jobs.NewJobManager(
		root.CreateRemindPendingOrdersCommandHandler(),
		configs.ReminderCutoffMinutes,
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, hub, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	// Missing .env is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load(".env")

	config := cmd.Config{
		HTTPPort:              envVariable("HTTP_PORT"),
		DBHost:                envVariable("DB_HOST"),
		DBPort:                envVariable("DB_PORT"),
		DBUser:                envVariable("DB_USER"),
		DBPassword:            envVariable("DB_PASSWORD"),
		DBName:                envVariable("DB_NAME"),
		DBSslMode:             envVariable("DB_SSLMODE"),
		RabbitURL:             os.Getenv("RABBITMQ_URL"),
		ReminderCutoffMinutes: envIntVariable("REMINDER_CUTOFF_MINUTES", 10),
	}
	return config
}

func envVariable(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Missing required environment variable %s", key)
	}
	return value
}

func envIntVariable(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.HistoryDTO{},
		&branchrepo.BranchDTO{},
		&branchrepo.ZoneDTO{},
		&inventoryrepo.RecordDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return gormDB
}

func startWebServer(root cmd.CompositionRoot, hub *ws.Hub, port string, logger *slog.Logger) {
	e := echo.New()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/ws", hub.HandleWebSocket)

	server := httpadapter.NewServer(
		root.CreatePlaceOrderCommandHandler(),
		root.CreateTransitionOrderCommandHandler(),
		root.CreateCheckInCommandHandler(),
		root.CreateCreateZoneCommandHandler(),
		root.CreateReserveInventoryCommandHandler(),
		root.CreateReportCourierLocationCommandHandler(),
		root.CreateGetOrderQueryHandler(),
		root.CreateGetBranchOrdersQueryHandler(),
		root.CreateResolveBranchQueryHandler(),
	)
	server.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		return e.Shutdown(context.Background())
	})

	if err := group.Wait(); err != nil {
		logger.Error("web server terminated", "error", err)
		os.Exit(1)
	}
}
