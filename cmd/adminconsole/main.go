package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/adminconsole/internal/config"
	"github.com/jask/adminconsole/internal/dashboard"
	"github.com/jask/adminconsole/internal/database"
	"github.com/jask/adminconsole/internal/database/repository"
	"github.com/jask/adminconsole/internal/logger"
	"github.com/jask/adminconsole/internal/prefs"
	"github.com/jask/adminconsole/internal/secrets"
	"github.com/jask/adminconsole/internal/storage"
	"github.com/jask/adminconsole/internal/stubapi"
	"github.com/jask/adminconsole/internal/table"
	"github.com/jask/adminconsole/internal/tui"
	"github.com/jask/adminconsole/internal/users"
)

func main() {
	offline := flag.Bool("offline", false, "serve the users API from an in-process stub")
	resetLayout := flag.Bool("reset", false, "clear persisted local state before starting")
	setToken := flag.String("set-token", "", "store an API token for the configured API host and exit")
	forgetToken := flag.Bool("forget-token", false, "delete the stored API token for the configured API host and exit")
	writeConfig := flag.Bool("write-config", false, "write the effective configuration to the config file and exit")
	listStorage := flag.Bool("list-storage", false, "print the keys held by the sqlite store and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *writeConfig {
		if err := config.Save(cfg); err != nil {
			log.Fatalf("write config: %v", err)
		}
		fmt.Println("configuration written")
		return
	}

	tokens := secrets.NewStore("")
	switch {
	case *setToken != "":
		if err := tokens.StoreToken(cfg.API.BaseURL, *setToken); err != nil {
			log.Fatalf("store token: %v", err)
		}
		fmt.Printf("token stored for %s\n", secrets.HostKey(cfg.API.BaseURL))
		return
	case *forgetToken:
		if err := tokens.DeleteToken(cfg.API.BaseURL); err != nil {
			log.Fatalf("delete token: %v", err)
		}
		fmt.Printf("token removed for %s\n", secrets.HostKey(cfg.API.BaseURL))
		return
	}

	logOut, err := logger.OpenFile(cfg.Log.File)
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer logOut.Close()
	lg := logger.New(cfg.Log.Level, logOut)
	ctx = logger.ToContext(ctx, lg)

	kv, db, err := openStorage(cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	if *listStorage {
		repo, ok := kv.(*repository.LocalStorageRepo)
		if !ok {
			log.Fatalf("list storage: backend %q is not sqlite", cfg.Storage.Backend)
		}
		if err := printEntries(ctx, os.Stdout, repo); err != nil {
			log.Fatalf("list storage: %v", err)
		}
		return
	}

	if *resetLayout {
		if db != nil {
			err = database.Reset(ctx, db)
		} else {
			err = kv.Remove(ctx, dashboard.PlacedKey)
		}
		if err != nil {
			log.Fatalf("reset: %v", err)
		}
	}

	baseURL := cfg.API.BaseURL
	if *offline {
		stop, url, err := startStub(lg)
		if err != nil {
			log.Fatalf("stub api: %v", err)
		}
		defer stop()
		baseURL = url
	}

	client := users.NewClient(users.Options{
		BaseURL:   baseURL,
		Token:     resolveToken(cfg.API, tokens),
		ListLimit: cfg.API.ListLimit,
		Timeout:   cfg.API.Timeout,
		Log:       lg,
	})
	vm := table.NewViewModel(client, cfg.UI.PageSize)
	if sort, err := table.ParseSort(cfg.UI.Sort); err == nil {
		vm.SetSort(sort)
	}

	store := dashboard.NewStore(dashboard.DefaultCatalog(tui.DashboardContents(cfg.UI.Locale)), kv, lg)
	defer store.Close()
	if err := store.Load(ctx); err != nil {
		// a broken layout should not keep the console from starting
		lg.Error("dashboard layout not restored", "error", err)
	}

	app := tui.New(ctx, tui.Options{
		Users:          client,
		Table:          vm,
		Dashboard:      store,
		FilterDebounce: cfg.UI.FilterDebounce,
		Log:            lg,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Send blocks until the program loop runs, so subscribe off the main goroutine.
	unsubscribed := make(chan func(), 1)
	go func() {
		unsubscribed <- client.Users().Subscribe(func(rs []users.Record) {
			p.Send(tui.RowsMsg(rs))
		})
	}()

	lg.Info("console started", "api", baseURL, "storage", cfg.Storage.Backend, "offline", *offline)
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
	select {
	case unsubscribe := <-unsubscribed:
		unsubscribe()
	default:
	}
}

// openStorage returns the configured KV. db is non-nil for the sqlite backend.
func openStorage(cfg config.StorageConfig) (storage.KV, *sql.DB, error) {
	switch cfg.Backend {
	case "memory":
		return storage.NewMemory(), nil, nil
	case "file":
		path := cfg.Path
		if filepath.Ext(path) != ".json" {
			path = "" // default file under the user config dir
		}
		fs, err := prefs.NewFileStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return fs, nil, nil
	default:
		db, err := database.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}
		if err := database.RunMigrations(cfg.Path); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return repository.NewLocalStorageRepo(db), db, nil
	}
}

// resolveToken prefers the env var, then the secrets file, then the config value.
func resolveToken(cfg config.APIConfig, tokens *secrets.Store) string {
	if env := strings.TrimSpace(cfg.TokenEnv); env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if t, err := tokens.FetchToken(cfg.BaseURL); err == nil {
		return t
	}
	return strings.TrimSpace(cfg.Token)
}

// printEntries writes one line per stored key: key, last update, value size.
func printEntries(ctx context.Context, w io.Writer, repo *repository.LocalStorageRepo) error {
	entries, err := repo.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d bytes\n", e.Key, e.UpdatedAt.Format(time.RFC3339), len(e.Value)); err != nil {
			return err
		}
	}
	return nil
}

func startStub(lg *slog.Logger) (stop func(), baseURL string, err error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, "", err
	}
	srv := &http.Server{Handler: stubapi.New(lg, stubapi.DefaultSeed()...).Handler()}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			lg.Error("stub api stopped", "error", err)
		}
	}()
	return func() { _ = srv.Close() }, "http://" + ln.Addr().String() + "/users", nil
}
