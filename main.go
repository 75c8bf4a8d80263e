package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"indesign-mcp/internal/indesign"
	mcpserver "indesign-mcp/internal/mcp"
	"indesign-mcp/internal/service"
	"indesign-mcp/internal/session"
	"indesign-mcp/internal/storage"
)

func main() {
	homeDir, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(homeDir, ".local", "share", "indesign-mcp")

	var (
		appName    = flag.String("app", indesign.DefaultApp, "InDesign application name for osascript")
		dataDir    = flag.String("data-dir", defaultDataDir, "directory for the run history database and merge CSV files")
		scriptsDir = flag.String("scripts-dir", "", "user script library directory (empty disables the library)")
		timeout    = flag.Duration("timeout", indesign.DefaultTimeout, "per-script execution timeout")
		autosave   = flag.String("autosave", "@every 2m", "cron schedule for session snapshots (empty disables)")
		restore    = flag.Bool("restore", true, "restore the latest session snapshot on startup")
	)
	flag.Parse()

	// stdout carries the MCP protocol; everything else goes to stderr.
	log.SetOutput(os.Stderr)

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	db, err := storage.New(filepath.Join(*dataDir, "indesign-mcp.db"))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	runStore := storage.NewRunStore(db)
	snapStore := storage.NewSnapshotStore(db)

	store := session.NewStore(session.DefaultConfig())
	store.Subscribe(session.LogListener(log.Default()))
	engine := session.NewEngine(store)

	bridge := indesign.NewBridge(*appName, "", *timeout)
	disp := service.NewDispatcher(bridge, runStore)

	docsSvc := service.NewDocumentService(disp, store)
	contentSvc := service.NewContentService(disp, store, engine)
	stylesSvc := service.NewStyleService(disp)
	exportsSvc := service.NewExportService(disp)
	mergeSvc := service.NewMergeService(disp, filepath.Join(*dataDir, "merge"))
	scriptsSvc := service.NewScriptService(disp, *scriptsDir)
	if err := scriptsSvc.Start(); err != nil {
		log.Fatalf("script library: %v", err)
	}
	defer scriptsSvc.Stop()

	saver := service.NewAutosaver(store, snapStore)
	if *restore {
		restored, err := saver.RestoreLatest()
		if err != nil {
			log.Printf("session restore skipped: %v", err)
		} else if restored {
			log.Println("session restored from latest snapshot")
		}
	}
	if *autosave != "" {
		if err := saver.Start(*autosave); err != nil {
			log.Fatalf("autosave: %v", err)
		}
		defer saver.Stop()
	}
	// Final snapshot on shutdown, then drop old ones.
	defer func() {
		saver.SnapshotNow()
		if err := snapStore.Prune(10); err != nil {
			log.Printf("snapshot prune: %v", err)
		}
	}()

	srv := mcpserver.New(mcpserver.Deps{
		Store:     store,
		Engine:    engine,
		Documents: docsSvc,
		Content:   contentSvc,
		Styles:    stylesSvc,
		Exports:   exportsSvc,
		Merge:     mergeSvc,
		Scripts:   scriptsSvc,
		Runs:      runStore,
	})
	if err := srv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
