package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"snapship-service/conf"
	"snapship-service/logger"
	"snapship-service/service/deploy_service"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Config file path (optional, SNAPSHIP_* env vars still apply)")
	zipPath := flag.String("zip", "", "Zip archive to deploy, index.html must be at its root")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *zipPath == "" {
		fmt.Fprintln(os.Stderr, "usage: snapship-cli -zip site.zip [-config conf.yaml]")
		os.Exit(2)
	}

	url, err := run(*configPath, *zipPath, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Deployment failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(url)
}

func run(configPath, zipPath string, verbose bool) (string, error) {
	cfg, err := conf.LoadConfig(configPath)
	if err != nil {
		return "", err
	}

	logCfg := conf.LogConfig{Level: "warn", Development: true}
	if verbose {
		logCfg.Level = "debug"
	}
	zlog, err := logger.Init(logCfg)
	if err != nil {
		return "", err
	}
	defer func() { _ = zlog.Sync() }()

	data, err := os.ReadFile(zipPath)
	if err != nil {
		return "", err
	}
	if cfg.Upload.MaxSize > 0 && int64(len(data)) > cfg.Upload.MaxSize {
		return "", deploy_service.ErrUploadTooLarge
	}

	entries, err := deploy_service.ReadArchive(data)
	if err != nil {
		return "", err
	}

	fileCount := 0
	for _, entry := range entries {
		if !entry.IsDirectory {
			fileCount++
		}
	}

	bar := progressbar.NewOptions(fileCount,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s] Packaging files", filepath.Base(zipPath))),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)

	packager := deploy_service.NewPackager(cfg.Vercel.ProjectPrefix)
	request, err := packager.Package(entries, func(n deploy_service.Note) {
		zlog.Debug(n.Text)
		if n.Kind == deploy_service.NoteFileAdded {
			_ = bar.Add(1)
		}
	})
	if err != nil {
		return "", err
	}
	_ = bar.Finish()

	fmt.Fprintf(os.Stderr, "\nDeploying %d files as %s...\n", len(request.Files), request.ProjectName)

	submitter := deploy_service.NewVercelSubmitter(cfg.Vercel, zlog.Named("vercel"))
	result, err := submitter.Submit(context.Background(), request)
	if err != nil {
		zlog.Debug("Submit failed", zap.Error(err))
		return "", err
	}
	return result.URL, nil
}
