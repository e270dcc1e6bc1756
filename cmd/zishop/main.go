package main

import (
	"context"
	"fmt"
	"time"

	"github.com/zishop/zishop/internal/adapter/auth"
	"github.com/zishop/zishop/internal/adapter/config"
	"github.com/zishop/zishop/internal/adapter/events"
	"github.com/zishop/zishop/internal/adapter/handler/http"
	"github.com/zishop/zishop/internal/adapter/logger"
	"github.com/zishop/zishop/internal/adapter/metrics"
	"github.com/zishop/zishop/internal/adapter/storage"
	"github.com/zishop/zishop/internal/adapter/storage/repository"
	"github.com/zishop/zishop/internal/core/domain"
	"github.com/zishop/zishop/internal/core/port"
	"github.com/zishop/zishop/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	var publisher port.EventPublisher
	if conf.Broker.URL != "" {
		amqpPublisher, err := events.NewPublisher(conf.Broker, log.Named("Events"))
		if err != nil {
			log.Error("event publisher creating error", zap.Error(err))
			return
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	} else {
		publisher = events.NewNoopPublisher(log.Named("Events"))
	}

	rates, err := domain.NewCommissionRates(
		conf.Commission.MerchantRate,
		conf.Commission.ZishopRate,
		conf.Commission.HotelRate)
	if err != nil {
		log.Error("commission rates error", zap.Error(err))
		return
	}

	refundWindow := time.Duration(conf.Commission.RefundWindowDays) * 24 * time.Hour
	engine, err := domain.NewWorkflowEngine(rates, refundWindow)
	if err != nil {
		log.Error("workflow engine creating error", zap.Error(err))
		return
	}

	svc, err := service.NewService(repo, tokenService, publisher, engine, log.Named("Service"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}

	serverMetrics := metrics.NewServerMetrics()

	userHandler, err := http.NewUserHandler(svc, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(svc, serverMetrics, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService, serverMetrics, orderHandler, userHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
