package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"OpenSketch/internal/discover"
	"OpenSketch/internal/relay"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			log.Fatalf("bad PORT %q: %v", p, err)
		}
		port = n
	}

	srv := relay.NewServer()

	mdnsServer, err := discover.Advertise(port)
	if err != nil {
		log.Printf("[RELAY] mDNS advertise failed: %v", err)
	} else {
		defer mdnsServer.Shutdown()
	}

	if ip, err := discover.OutgoingIP(context.Background()); err == nil {
		log.Printf("[RELAY] share address ws://%s:%d", ip, port)
	}

	addr := fmt.Sprintf(":%d", port)
	if a := os.Getenv("ADDR"); a != "" {
		addr = a
	}
	log.Printf("[RELAY] listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, srv.Router()))
}
