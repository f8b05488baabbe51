package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	intconfig "homeservice/internal/config"
	router "homeservice/internal/http"
	"homeservice/internal/notify"
	"homeservice/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	dispatcher := &notify.Dispatcher{
		Sink:      notify.RecordSink{},
		BaseDelay: env.NotifyBaseDelay,
	}
	notify.Setup(dispatcher)

	// Periodic delay sweep. Each run re-derives eligibility from the store,
	// so a missed or doubled run is harmless.
	sweeper := services.DelayService{Location: env.Location()}
	c := cron.New()
	if _, err := c.AddFunc(env.DelaySweepSpec, func() {
		if _, _, err := sweeper.Sweep(); err != nil {
			log.Errorf("delay sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("invalid delay sweep spec %q: %v", env.DelaySweepSpec, err)
	}
	c.Start()

	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	<-c.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	// Flush in-flight notification deliveries before the DB closes.
	dispatcher.Wait()

	log.Info("server stopped")
}
