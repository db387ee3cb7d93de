package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"OpenSketch/internal/discover"
	"OpenSketch/internal/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	relay := flag.String("relay", envOr("OPENSKETCH_RELAY", ""), "relay base URL (ws://host:port)")
	room := flag.String("room", envOr("OPENSKETCH_ROOM", ""), "room id to share into")
	data := flag.String("data", "", "local data directory")
	flag.Parse()

	if *relay == "" {
		*relay = findRelay()
	}
	if *data == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		*data = filepath.Join(base, "opensketch")
	}

	log.Printf("[APP] relay=%s data=%s", *relay, *data)
	ui.RunApp(ui.Config{RelayURL: *relay, RoomID: *room, DataDir: *data})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// findRelay browses the LAN for an advertised relay, falling back to
// localhost when none answers.
func findRelay() string {
	addr := "localhost:8080"
	if err := discover.Browse(func(found string) { addr = found }); err != nil {
		log.Printf("[APP] mDNS lookup failed: %v", err)
	}
	return fmt.Sprintf("ws://%s", addr)
}
