// Command slidr serves the slideshow editor API.
package main

import (
	"log"

	"github.com/patric-chuzhbe/slidr/internal/app"
)

func main() {
	slidr, err := app.New()
	if err != nil {
		log.Fatalf("in cmd/slidr/main.go/main(): error while `app.New()` calling: %v", err)
	}
	defer slidr.Close()

	if err := slidr.Run(); err != nil {
		log.Printf("in cmd/slidr/main.go/main(): error while `slidr.Run()` calling: %v", err)
	}
}
