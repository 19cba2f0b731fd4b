package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/junsooki/viodisplay/internal/config"
	"github.com/junsooki/viodisplay/internal/display"
	"github.com/junsooki/viodisplay/internal/pipeline"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	log.Printf("VIO display demo starting")
	log.Printf("  Display:    %s", cfg.DisplayType)
	log.Printf("  Rate:       %.1f Hz", cfg.Rate)
	log.Printf("  Landmarks:  %d", cfg.Landmarks)
	if cfg.DisplayType == display.TypeRemote {
		log.Printf("  Signaling:  %s", cfg.SignalingURL)
		log.Printf("  Publisher:  %s", cfg.PublisherID)
	}

	ctx, stopPipeline := context.WithCancel(context.Background())
	defer stopPipeline()

	// The display owns the decision to stop; it only tells us.
	disp := display.MustNew(cfg.DisplayType, func() {
		log.Println("Display requested pipeline shutdown")
		stopPipeline()
	}, display.WithRemoteConfig(cfg.Remote()))

	src := pipeline.NewSynthetic(cfg.Rate, cfg.Landmarks, time.Now().UnixNano())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := src.Run(ctx, disp); err != nil {
			log.Printf("pipeline: %v", err)
		}
	}()

	// Interrupts stop the pipeline and close the display.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			log.Println("Shutting down...")
			stopPipeline()
		case <-ctx.Done():
		}
		disp.Close()
	}()

	// Ebitengine RunGame must be on the main goroutine (macOS requirement).
	if err := disp.Run(); err != nil {
		log.Fatalf("display: %v", err)
	}

	stopPipeline()
	wg.Wait()
	if err := disp.Close(); err != nil {
		log.Printf("close display: %v", err)
	}
}
