// Package app wires the client together: configuration, the event bus, the
// identity cache, the API client and the per-screen services.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/TalelKhemiri/GoCodeMobile/internal/api"
	"github.com/TalelKhemiri/GoCodeMobile/internal/auth"
	"github.com/TalelKhemiri/GoCodeMobile/internal/catalog"
	"github.com/TalelKhemiri/GoCodeMobile/internal/course"
	"github.com/TalelKhemiri/GoCodeMobile/internal/dashboard"
	"github.com/TalelKhemiri/GoCodeMobile/internal/event"
	"github.com/TalelKhemiri/GoCodeMobile/internal/identity"
	"github.com/TalelKhemiri/GoCodeMobile/internal/quiz"
)

type Config struct {
	API struct {
		// BaseURL of the backend including the /api prefix.
		BaseURL string
		Timeout time.Duration
	}

	Storage struct {
		// Path of the local sqlite file caching the signed-in identity.
		Path string
	}
}

type App struct {
	c Config

	eb *event.Bus

	infra struct {
		identity *identity.Store
		api      *api.Client
	}

	service struct {
		auth      *auth.Service
		catalog   *catalog.Service
		course    *course.Controller
		dashboard *dashboard.Controller
	}
}

func Init(c Config) (*App, error) {
	a := &App{c: c}

	a.eb = event.NewBus()

	if err := a.initInfra(); err != nil {
		return nil, fmt.Errorf("app: init infra: %w", err)
	}

	a.initService()
	return a, nil
}

func (a *App) initInfra() error {
	if dir := filepath.Dir(a.c.Storage.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("storage dir: %w", err)
		}
	}

	store, err := identity.Open(identity.Config{
		Path:     a.c.Storage.Path,
		EventBus: a.eb,
	})
	if err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	a.infra.identity = store

	a.infra.api = api.New(api.Config{
		BaseURL: a.c.API.BaseURL,
		Timeout: a.c.API.Timeout,
		Tokens:  store,
	})

	return nil
}

func (a *App) initService() {
	a.service.auth = auth.NewService(auth.Config{
		API:      a.infra.api,
		Identity: a.infra.identity,
	})

	a.service.catalog = catalog.NewService(catalog.Config{
		API: a.infra.api,
	})

	a.service.course = course.NewController(course.Config{
		API:      a.infra.api,
		EventBus: a.eb,
	})

	a.service.dashboard = dashboard.NewController(dashboard.Config{
		API: a.infra.api,
	})
}

func (a *App) Auth() *auth.Service            { return a.service.auth }
func (a *App) Catalog() *catalog.Service      { return a.service.catalog }
func (a *App) Course() *course.Controller     { return a.service.course }
func (a *App) Dashboard() *dashboard.Controller { return a.service.dashboard }
func (a *App) Identity() *identity.Store      { return a.infra.identity }
func (a *App) Quiz() *quiz.Registry           { return quiz.Default() }
func (a *App) Events() *event.Bus             { return a.eb }

// Shutdown drains the event bus and closes the identity cache.
func (a *App) Shutdown() {
	a.eb.Stop()

	if err := a.infra.identity.Close(); err != nil {
		slog.Error("app: close identity store failed", "error", err)
	}
}
