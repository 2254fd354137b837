package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/kjarj54/PlayWise-Backend/internal/app"
	"github.com/kjarj54/PlayWise-Backend/internal/config"
)

func main() {
	// Optional; production injects real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
