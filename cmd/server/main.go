package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Drazod/LMS-AI-BE/internal/api/handler"
	"github.com/Drazod/LMS-AI-BE/internal/api/router"
	"github.com/Drazod/LMS-AI-BE/internal/config"
	"github.com/Drazod/LMS-AI-BE/internal/infra/producer"
	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/db"
	"github.com/Drazod/LMS-AI-BE/internal/infra/repository/redis_repo"
	"github.com/Drazod/LMS-AI-BE/internal/service"
	"github.com/Drazod/LMS-AI-BE/internal/vnpay"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cf, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatal(err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	conn, err := db.GetDbConn(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)
	if err != nil {
		log.Fatal(err)
	}
	store := db.NewSQLStore(conn)
	if err := store.InitMigrate(); err != nil {
		log.Fatal(err)
	}

	// redis 只當報價快取，連不上不擋啟動
	var priceCache redis_repo.ICoursePriceRepository
	if cf.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cf.RedisAddr,
			Password: cf.RedisPassword,
		})
		priceCache = redis_repo.NewCoursePriceRepo(rdb)
	}

	var eventProd producer.IPurchaseEventProducer
	var kafkaProd *producer.KafkaPurchaseProducer
	if cf.KafkaBrokers != "" {
		kafkaProd = producer.NewKafkaPurchaseProducer(strings.Split(cf.KafkaBrokers, ","), cf.KafkaTopic)
		eventProd = kafkaProd
	}

	gatewayCfg := vnpay.Config{
		PayURL:     cf.VnpPayURL,
		TmnCode:    cf.VnpTmnCode,
		HashSecret: cf.VnpHashSecret,
		ReturnURL:  cf.VnpReturnURL,
	}

	// 所有 service 都在啟動時建立一次，之後以參考注入，不用全域狀態
	priceSvc := service.NewPriceService(store, priceCache, &logger)
	checkoutSvc := service.NewCheckoutService(store, &logger)
	paymentSvc := service.NewPaymentService(store, priceSvc, gatewayCfg, &logger)
	callbackSvc := service.NewCallbackService(checkoutSvc, store, eventProd, cf.VnpHashSecret, &logger)

	paymentHandler := handler.NewPaymentHandler(priceSvc, paymentSvc, callbackSvc, store)
	r := router.SetupRouter(paymentHandler, &logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cf.ServerPort),
		Handler: r,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutDownCompleted := make(chan struct{}, 1)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if kafkaProd != nil {
			if err := kafkaProd.Close(); err != nil {
				log.Printf("Kafka producer close error: %v", err)
			}
		}

		shutDownCompleted <- struct{}{}
	}()

	log.Printf("Server starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal(err)
	}
	<-shutDownCompleted
	log.Printf("closed completed")
}
