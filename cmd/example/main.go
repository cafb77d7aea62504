package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	appkit "github.com/goliatone/go-appkit"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-appkit/pkg/interfaces"
)

func main() {
	ctx := context.Background()

	basePath, err := os.MkdirTemp("", "appkit-example-")
	if err != nil {
		log.Fatalf("create base path: %v", err)
	}
	defer os.RemoveAll(basePath)

	runtimePath := basePath + "/runtime"
	if err := os.MkdirAll(runtimePath, 0o755); err != nil {
		log.Fatalf("create runtime path: %v", err)
	}

	cfg := appkit.DefaultConfig()
	cfg.Name = "example"
	cfg.BasePath = basePath
	cfg.Language = "es_es"
	cfg.TimeZone = "UTC"
	cfg.Preload = []string{"errorHandler", "securityManager", "statePersister"}
	cfg.URLs = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"page": "/pages/:slug",
				},
			},
		},
	}

	app, err := appkit.New(cfg, appkit.WithExitFunc(func(int) {}))
	if err != nil {
		log.Fatalf("initialise application: %v", err)
	}
	if err := app.SetRuntimePath(runtimePath); err != nil {
		log.Fatalf("set runtime path: %v", err)
	}

	app.OnBeforeRequest(func(ctx context.Context, a interfaces.AppContext) error {
		a.Logger("example").Info("request starting", "app", a.Name())
		return nil
	})
	app.OnAfterRequest(func(ctx context.Context, a interfaces.AppContext) error {
		a.Logger("example").Info("request finished")
		return nil
	})

	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("initialize: %v", err)
	}

	payload := map[string]any{
		"id":       app.ID(),
		"language": app.Language(),
		"state":    app.State().String(),
	}

	err = app.Run(ctx, func(ctx context.Context, a interfaces.AppContext) error {
		security, err := app.SecurityManager(ctx)
		if err != nil {
			return err
		}
		signed, err := security.Sign([]byte("example payload"))
		if err != nil {
			return err
		}
		valid, err := security.Validate([]byte("example payload"), signed)
		if err != nil {
			return err
		}
		payload["signed_valid"] = valid

		formatter, err := app.Formatter(ctx)
		if err != nil {
			return err
		}
		payload["number"] = formatter.Number(1234567.5, 2)
		date, err := formatter.Date(time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC), "")
		if err != nil {
			return err
		}
		payload["date"] = date

		core, err := app.CoreMessages(ctx)
		if err != nil {
			return err
		}
		translated, err := core.Translate(ctx, "app", "error.not_found", app.Language())
		if err != nil {
			return err
		}
		payload["message"] = translated

		urlManager, err := app.URLs(ctx)
		if err != nil {
			return err
		}
		pageURL, err := urlManager.Build("frontend", "page", map[string]string{"slug": "company"})
		if err != nil {
			return err
		}
		payload["page_url"] = pageURL

		state, err := app.StatePersister(ctx)
		if err != nil {
			return err
		}
		return state.Save(ctx, map[string]any{"last_run": time.Now().UTC().Format(time.RFC3339)})
	})
	if err != nil {
		log.Fatalf("run request: %v", err)
	}

	if err := app.End(ctx, 0, false); err != nil {
		log.Fatalf("end application: %v", err)
	}
	payload["final_state"] = app.State().String()

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}
