package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/client/docstore"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/client/localfile"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/client/uploadapi"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/auth"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/catalog"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/uploadqueue"
)

// tokenValidity is the lifetime of tokens minted from UPLOADER_JWT_SECRET
const tokenValidity = time.Hour

func main() {
	var (
		apiURL          string
		token           string
		folder          string
		subcollectionID string
		alt             string
		operator        string
		noRecord        bool
		retry           bool
	)

	flag.StringVar(&apiURL, "api", "", "API base URL, defaults to UPLOADER_API_URL")
	flag.StringVar(&token, "token", "", "Bearer token, defaults to UPLOADER_TOKEN")
	flag.StringVar(&folder, "folder", "", "Folder name the images are filed under, created when missing")
	flag.StringVar(&subcollectionID, "subcollection", "", "Subcollection id attached to the image records")
	flag.StringVar(&alt, "alt", "", "Alt text attached to the image records")
	flag.StringVar(&operator, "operator", "uploader", "Operator name put in minted tokens")
	flag.BoolVar(&noRecord, "no-record", false, "Upload files without writing image records")
	flag.BoolVar(&retry, "retry", false, "Retry failed files once after the first pass")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file|dir>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.LoadUploader()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if apiURL == "" {
		apiURL = cfg.APIURL
	}
	if token == "" {
		token = cfg.Token
	}
	if token == "" && cfg.JWTSecret != "" {
		token, err = auth.GenerateToken(operator, []byte(cfg.JWTSecret), tokenValidity)
		if err != nil {
			logger.Error("failed to mint token", "error", err)
			os.Exit(1)
		}
	}

	files, err := localfile.Expand(flag.Args())
	if err != nil {
		logger.Error("failed to read input files", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no files to upload")
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	api := uploadapi.NewClient(apiURL, token, httpClient, logger)

	opts := uploadqueue.Options{SubcollectionID: subcollectionID, Alt: alt}
	var store port.DocumentStore
	if !noRecord {
		docs := docstore.NewClient(apiURL, token, httpClient, logger)
		store = docs

		if folder != "" || subcollectionID != "" {
			c := catalog.New(docs, logger)
			if err := c.Load(ctx); err != nil {
				logger.Error("failed to load catalog", "error", err)
				os.Exit(1)
			}
			if subcollectionID != "" {
				if _, ok := c.Subcollections.Get(subcollectionID); !ok {
					logger.Error("unknown subcollection", "id", subcollectionID)
					os.Exit(1)
				}
			}
			if folder != "" {
				f, err := c.EnsureFolder(ctx, folder, "")
				if err != nil {
					logger.Error("failed to resolve folder", "folder", folder, "error", err)
					os.Exit(1)
				}
				opts.FolderID = f.ID
			}
		}
	}

	queue := uploadqueue.NewQueue()
	r := newRenderer(os.Stdout)
	unsubscribe := queue.Subscribe(r.render)
	defer unsubscribe()

	orchestrator := uploadqueue.NewOrchestrator(queue, api, store, logger)
	items, err := orchestrator.Submit(ctx, files, opts)
	if err != nil {
		logger.Warn("upload interrupted", "error", err)
	}

	if retry && ctx.Err() == nil {
		for _, item := range items {
			if item.Status != domain.UploadStatusError {
				continue
			}
			if _, err := orchestrator.Retry(ctx, item.ID); err != nil {
				logger.Warn("retry failed", "file", item.File.Name(), "error", err)
			}
		}
	}

	summary := queue.Summary()
	r.summary(summary, queue.Items())
	if summary.Error > 0 || summary.Invalid > 0 || summary.Pending > 0 {
		os.Exit(1)
	}
}
