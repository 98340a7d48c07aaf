package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/you/drivingschool-training/internal/server/repository"
	"github.com/you/drivingschool-training/internal/server/rest"
	"github.com/you/drivingschool-training/internal/server/service"
	"github.com/you/drivingschool-training/pkg/config"
	"github.com/you/drivingschool-training/pkg/db"
	"github.com/you/drivingschool-training/pkg/mq"
	"github.com/you/drivingschool-training/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())

	shutdownTracer := obs.InitTracer("trainingd")
	defer func() { _ = shutdownTracer(context.Background()) }()

	gdb := db.Open(cfg.PGTrainingDSN)
	sessions := repository.NewSessionRepo(gdb)
	enrollments := repository.NewEnrollmentRepo(gdb)
	resources := repository.NewResourceRepo(gdb)
	must(0, sessions.Migrate())
	must(0, enrollments.Migrate())
	must(0, resources.Migrate())

	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.TrainingExchange))
	defer pub.Close()

	svc := service.NewTrainingSvc(sessions, enrollments, resources, pub)
	router := rest.NewRouter(svc)

	srv := &http.Server{Addr: cfg.TrainingHTTPAddr, Handler: router}
	go func() {
		log.Println("[trainingd] HTTP listening on", cfg.TrainingHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Println("[trainingd] stopped")
}
