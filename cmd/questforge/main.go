package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/ravenridge/questforge/internal/config"
	"github.com/ravenridge/questforge/internal/infra/database"
	"github.com/ravenridge/questforge/internal/infra/repository"
	"github.com/ravenridge/questforge/internal/present/rest"
	"github.com/ravenridge/questforge/internal/present/rest/middleware"
	"github.com/ravenridge/questforge/internal/service"
	"github.com/ravenridge/questforge/internal/usecase"
)

func main() {
	configPath := flag.String("c", "config.yaml", "path to config file")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authConf, err := conf.AuthConfig()
	if err != nil {
		slog.Error("Invalid auth config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := setupTracing(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("Failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				slog.Error("Failed to shut down tracing", slog.String("error", err.Error()))
			}
		}()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("Failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = database.MigratePostgres(db)
	if err != nil {
		slog.Error("Failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	accountRepo := repository.NewAccountRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	itemRepo := repository.NewCachedItemRepository(repository.NewItemRepository(db))

	credential := service.NewCredentialService(authConf)
	signal := service.NewSignalService(rdb)

	characterUC := usecase.NewCharacterUsecase(characterRepo, accountRepo, credential, signal)
	itemUC := usecase.NewItemUsecase(itemRepo)

	handler := rest.NewHandler(characterUC, itemUC, signal)
	authMW := middleware.NewAuthMiddleware(credential, accountRepo)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("questforge"))
	}

	handler.RegisterRoutes(e, authMW)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}

func setupTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("questforge"),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
