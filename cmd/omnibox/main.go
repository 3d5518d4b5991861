package main

import (
	"log"

	"github.com/MrSnakeDoc/omnibox/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ omnibox failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ omnibox stopped with error: %v", err)
	}
}
