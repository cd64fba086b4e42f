package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"webbuses/api"
	"webbuses/config"
	"webbuses/logging"
	"webbuses/scheduler"
	"webbuses/services"
	"webbuses/storage"
	"webbuses/workers"
)

var (
	refreshNow = flag.Bool("refresh", false, "Refresh the catalog once, print a summary and exit")
	adminDump  = flag.Bool("admin", false, "Load all advertiser groups, print them and exit")
	approveID  = flag.String("approve", "", "Approve one listing and exit")
	rejectID   = flag.String("reject", "", "Reject one listing and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("webbuses.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting webbuses...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := api.NewClient(cfg.APIURL)
	log.Printf("API root: %s", client.APIRoot())
	log.Printf("Loaded %d browse categories", len(cfg.Categories))

	ctx := context.Background()

	catalog := services.NewCatalog(client, cfg.Browse.PageSize)
	moderation := services.NewModeration(client, catalog)
	aggregator := services.NewAggregator(client, cfg.Admin.PageLimit)

	// One-shot commands
	if *refreshNow {
		if err := catalog.Refresh(ctx); err != nil {
			log.Fatalf("Refresh failed: %v", err)
		}
		log.Printf("Refresh complete: %d approved listings", catalog.Len())
		return
	}

	if *adminDump {
		runAdminDump(ctx, aggregator)
		return
	}

	if *approveID != "" || *rejectID != "" {
		if err := catalog.Refresh(ctx); err != nil {
			log.Fatalf("Refresh failed: %v", err)
		}
		if *approveID != "" {
			if err := moderation.Approve(ctx, *approveID); err != nil {
				log.Fatalf("Approve failed: %v", err)
			}
			log.Printf("Approved %s", *approveID)
		}
		if *rejectID != "" {
			if err := moderation.Reject(ctx, *rejectID); err != nil {
				log.Fatalf("Reject failed: %v", err)
			}
			log.Printf("Rejected %s", *rejectID)
		}
		return
	}

	// Daemon mode
	prefs, err := storage.NewPrefsStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open preferences database: %v", err)
	}
	defer prefs.Close()
	log.Printf("Preferences database: %s", cfg.DBPath)

	if err := catalog.Refresh(ctx); err != nil {
		log.Printf("Warning: initial refresh failed: %v", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.New(cfg, catalog)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	var uploader workers.Uploader = workers.NoOpUploader{}
	s3cfg := storage.S3Config{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	}
	if s3cfg.Configured() {
		mirror, err := storage.NewS3Mirror(ctx, s3cfg)
		if err != nil {
			log.Printf("Warning: S3 mirror disabled: %v", err)
		} else {
			uploader = mirror
			log.Printf("S3 mirror: bucket %s", s3cfg.Bucket)
		}
	}

	coverWorker := workers.NewCoverWorker(catalog, client, uploader)
	go coverWorker.Run(ctx, cfg.Workers.CoverBatch, cfg.Workers.CoverInterval)
	log.Println("Cover worker started")

	metaWorker := workers.NewMetaWorker(catalog, client)
	go metaWorker.Run(ctx, cfg.Workers.MetaInterval)
	log.Println("Meta worker started")

	sched.SetWorkers(coverWorker)

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	metaWorker.Cancel()
	sched.Stop()
	cancel()
}

func runAdminDump(ctx context.Context, aggregator *services.Aggregator) {
	groups, err := aggregator.LoadPage(ctx, 1)
	if err != nil {
		log.Fatalf("Admin load failed: %v", err)
	}
	for {
		g, more, err := aggregator.LoadMore(ctx)
		if err != nil {
			log.Printf("Warning: stopped early: %v", err)
			break
		}
		groups = g
		if !more {
			break
		}
	}
	log.Printf("%d advertisers, %d listings", len(groups), aggregator.Total())
	for _, g := range groups {
		log.Printf("  %s (%s) - %d listings", g.Name, g.Phone, len(g.Listings))
	}
}
