package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/you/drivingschool-training/internal/notify"
	"github.com/you/drivingschool-training/pkg/config"
	"github.com/you/drivingschool-training/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var cons *mq.Consumer
	for {
		cons, err = mq.NewConsumer(cfg.RabbitURL, cfg.TrainingExchange, cfg.NotifyQueue,
			[]string{"session.*", "enrollment.*"})
		if err != nil {
			log.Printf("[notifyd] connect failed: %v; retry in 2s", err)
			time.Sleep(2 * time.Second)
			continue
		}
		break
	}
	defer cons.Close()

	w := notify.NewWorker(cons, notify.NewConsole())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Run(ctx); err != nil {
			log.Printf("[notifyd] run error: %v", err)
		}
	}()
	log.Printf("[notifyd] started. queue=%s exchange=%s", cfg.NotifyQueue, cfg.TrainingExchange)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	time.Sleep(200 * time.Millisecond)
	log.Println("[notifyd] stopped")
}
