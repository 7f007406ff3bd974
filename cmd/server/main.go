package main

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"sketchparty/internal/classifier"
	"sketchparty/internal/config"
	"sketchparty/internal/game"
	"sketchparty/internal/logger"
	"sketchparty/internal/words"
	"sketchparty/internal/ws"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	var cls game.Classifier = classifier.Disabled{}
	if cfg.GeminiAPIKey != "" {
		g, err := classifier.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client")
		}
		cls = g
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, cheat detection disabled")
	}

	registry := game.NewRegistry()
	hub := ws.NewHub(log)
	engine := game.NewEngine(registry, hub, words.NewPool(), cls, game.DefaultConfig(), log)

	app := fiber.New()
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		client := ws.NewClient(c, hub, engine, log)
		log.Info().Str("conn", client.ID()).Msg("client connected")
		client.Serve()
		log.Info().Str("conn", client.ID()).Msg("client disconnected")
	}))

	app.Get("/api/rooms", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"rooms": registry.IDs()})
	})

	app.Get("/room/:id", func(c *fiber.Ctx) error {
		r, ok := registry.Get(c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "room not found"})
		}
		return c.JSON(r.Summary())
	})

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
