// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"connectrpc.com/connect"
	firebase "firebase.google.com/go/v4"
	"github.com/curioswitch/go-curiostack/otel"
	"github.com/curioswitch/go-curiostack/server"
	"github.com/curioswitch/go-usegcp/middleware/firebaseauth"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gocolly/colly/v2"
	"google.golang.org/genai"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/auth"
	"github.com/curioswitch/recipeclip/internal/config"
	"github.com/curioswitch/recipeclip/internal/file"
	"github.com/curioswitch/recipeclip/internal/handler/getrecipe"
	"github.com/curioswitch/recipeclip/internal/handler/listrecipes"
	"github.com/curioswitch/recipeclip/internal/handler/previewurl"
	"github.com/curioswitch/recipeclip/internal/handler/recordcooking"
	"github.com/curioswitch/recipeclip/internal/handler/saverecipe"
	"github.com/curioswitch/recipeclip/internal/handler/suggesttags"
	"github.com/curioswitch/recipeclip/internal/handler/touchrecipe"
	"github.com/curioswitch/recipeclip/internal/oembed"
	"github.com/curioswitch/recipeclip/internal/ogp"
	"github.com/curioswitch/recipeclip/internal/preview"
	"github.com/curioswitch/recipeclip/internal/recipedb"
	"github.com/curioswitch/recipeclip/internal/recipesave"
	"github.com/curioswitch/recipeclip/internal/resolve"
	"github.com/curioswitch/recipeclip/internal/tagging"
	"github.com/curioswitch/recipeclip/internal/thumbnail"
)

//go:embed conf/*.yaml
var confFiles embed.FS

func main() {
	conf, _ := fs.Sub(confFiles, "conf")
	os.Exit(server.Main(&config.Config{}, conf, setupServer))
}

func setupServer(ctx context.Context, conf *config.Config, s *server.Server) error {
	mux := server.Mux(s)

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: conf.Google.Project})
	if err != nil {
		return fmt.Errorf("main: create firebase app: %w", err)
	}

	fbAuth, err := fbApp.Auth(ctx)
	if err != nil {
		return fmt.Errorf("main: create firebase auth client: %w", err)
	}

	firestore, err := fbApp.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("main: create firestore client: %w", err)
	}
	defer func() {
		if err := firestore.Close(); err != nil {
			slog.ErrorContext(ctx, "main: close firestore client", "error", err)
		}
	}()

	var images recipesave.ImageMirror
	if bucket := conf.Thumbnails.Bucket; bucket != "" {
		storage, err := storage.NewGRPCClient(ctx)
		if err != nil {
			return fmt.Errorf("main: create storage client: %w", err)
		}
		defer func() {
			if err := storage.Close(); err != nil {
				slog.ErrorContext(ctx, "main: close storage client", "error", err)
			}
		}()
		images = thumbnail.NewMirror(http.DefaultClient, file.NewIO(storage, bucket), conf.Fetch.UserAgent)
	}

	genAI, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		Project: conf.Google.Project,
	})
	if err != nil {
		return fmt.Errorf("main: create genai client: %w", err)
	}

	baseCollector := colly.NewCollector(
		colly.UserAgent(conf.Fetch.UserAgent),
	)

	previews := preview.NewService(
		resolve.NewResolver(http.DefaultClient, conf.Fetch.UserAgent),
		oembed.NewClient(http.DefaultClient, oembed.Endpoints{
			YouTube: conf.OEmbed.YouTube,
			X:       conf.OEmbed.X,
			TikTok:  conf.OEmbed.TikTok,
		}, conf.Fetch.UserAgent),
		ogp.NewReader(baseCollector),
	)
	recipes := recipedb.NewStore(firestore)

	fbMW := firebaseauth.NewMiddleware(fbAuth)
	mux.Use(middleware.Maybe(func(h http.Handler) http.Handler {
		return fbMW(auth.Middleware()(h))
	}, func(r *http.Request) bool {
		switch {
		case strings.HasPrefix(r.URL.Path, "/internal/"):
			return false
		case r.URL.Path == clipapi.PreviewURLProcedure:
			return false
		default:
			return true
		}
	}))

	opts := connect.WithInterceptors(otel.ConnectInterceptor())

	mux.Handle(clipapi.NewHandler(clipapi.PreviewURLProcedure,
		previewurl.NewHandler(previews).PreviewURL, opts))
	mux.Handle(clipapi.NewHandler(clipapi.SaveRecipeProcedure,
		saverecipe.NewHandler(recipesave.NewSaver(recipes, images)).SaveRecipe, opts))
	mux.Handle(clipapi.NewHandler(clipapi.ListRecipesProcedure,
		listrecipes.NewHandler(recipes).ListRecipes, opts))
	mux.Handle(clipapi.NewHandler(clipapi.GetRecipeProcedure,
		getrecipe.NewHandler(recipes).GetRecipe, opts))
	mux.Handle(clipapi.NewHandler(clipapi.RecordCookingProcedure,
		recordcooking.NewHandler(recipes).RecordCooking, opts))
	mux.Handle(clipapi.NewHandler(clipapi.TouchRecipeProcedure,
		touchrecipe.NewHandler(recipes).TouchRecipe, opts))
	mux.Handle(clipapi.NewHandler(clipapi.SuggestTagsProcedure,
		suggesttags.NewHandler(tagging.NewSuggester(genAI.Models, conf.Tagging.Model)).SuggestTags, opts))

	if err := server.Start(ctx, s); err != nil {
		return fmt.Errorf("main: start server: %w", err)
	}
	return nil
}
