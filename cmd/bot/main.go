package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/KirkDiggler/mindmeld/internal/common/clock"
	"github.com/KirkDiggler/mindmeld/internal/common/code"
	"github.com/KirkDiggler/mindmeld/internal/common/uuid"
	"github.com/KirkDiggler/mindmeld/internal/handlers/discord"
	playerRepo "github.com/KirkDiggler/mindmeld/internal/repositories/player"
	sessionRepo "github.com/KirkDiggler/mindmeld/internal/repositories/session"
	gameService "github.com/KirkDiggler/mindmeld/internal/services/game"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize the player directory
	directory := playerRepo.NewMemory()

	// Initialize the session registry
	registry, err := sessionRepo.NewMemory(&sessionRepo.Config{
		CodeGenerator: code.New(),
		Clock:         clock.New(),
		UUIDGenerator: uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create session registry: %v", err)
	}

	// Parse the admin allow-list
	var adminIDs []string
	for _, id := range strings.Split(getEnv("ADMIN_IDS", ""), ",") {
		if id = strings.TrimSpace(id); id != "" {
			adminIDs = append(adminIDs, id)
		}
	}

	// Initialize the game service
	gameSvc, err := gameService.New(&gameService.Config{
		Registry:  registry,
		Directory: directory,
		Clock:     clock.New(),
		AdminIDs:  adminIDs,
	})
	if err != nil {
		log.Fatalf("Failed to create game service: %v", err)
	}

	// Get the Discord token from the environment
	botToken := getEnv("BOT_TOKEN", "")
	if botToken == "" {
		log.Fatal("BOT_TOKEN environment variable is required")
	}

	// Initialize the Discord bot
	bot, err := discord.New(&discord.Config{
		Token:           botToken,
		ApplicationID:   getEnv("APPLICATION_ID", ""),
		GuildID:         getEnv("GUILD_ID", ""),
		GameService:     gameSvc,
		PlayerDirectory: directory,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
