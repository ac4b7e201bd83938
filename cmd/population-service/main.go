package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"populationservice/internal/app"
)

func main() {
	// optional .env for local development, real environments set vars directly
	_ = godotenv.Load()

	application := &app.PopulationApplication{}
	if err := application.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize the application: %v", err)
	}

	application.Run()
}
