package main

import (
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/reelmates/reelsync/internal/api/handlers"
	"github.com/reelmates/reelsync/internal/config"
	"github.com/reelmates/reelsync/internal/enrich"
	"github.com/reelmates/reelsync/internal/fetcher"
	"github.com/reelmates/reelsync/internal/middleware"
	"github.com/reelmates/reelsync/internal/prefs"
	"github.com/reelmates/reelsync/internal/worker"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}

	store, err := prefs.Open(cfg.DBPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer store.Close()

	client := fetcher.NewClient(cfg.APIBaseURL, cfg.MetadataBaseURL, cfg.SessionToken, 60*time.Second)
	cache := enrich.NewCache(client.LookupTitle)

	w := worker.NewWorker(client, cache)
	w.Start(cfg.PrefetchInterval)

	h := handlers.NewHandler(client, cache, store, cfg, w)

	r := gin.Default()
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(sessions.Sessions("reelsync", cookie.NewStore([]byte(cfg.SessionSecret))))
	r.Use(middleware.SessionMiddleware())

	r.GET("/health", h.HealthHandler)

	api := r.Group("/api")
	{
		api.GET("/feed", h.FeedHandler)
		api.GET("/feed/more", h.FeedMoreHandler)
		api.GET("/viewings", h.ViewingsHandler)
		api.GET("/viewings/export", h.ExportViewingsHandler)
		api.GET("/circles/:id", h.CircleHandler)
		api.POST("/circles/:id/join", h.JoinCircleHandler)
		api.GET("/profile", h.ProfileHandler)
		api.PUT("/profile", h.ProfileSaveHandler)
		api.GET("/services", h.ServicesHandler)
		api.GET("/settings/visibility", h.VisibilityHandler)
		api.PUT("/settings/visibility", h.SetVisibilityHandler)
	}

	r.Run(cfg.ListenAddr)
}
