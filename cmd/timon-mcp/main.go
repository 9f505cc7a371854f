package main

import (
	"context"
	"log"
	"os"

	"github.com/timon-db/timon/internal/mcpsrv"
)

func main() {
	storagePath := os.Getenv("TIMON_STORAGE_PATH")
	if storagePath == "" {
		storagePath = ".timon/storage"
	}

	s, err := mcpsrv.New(storagePath)
	if err != nil {
		log.Fatalf("timon-mcp: %v", err)
	}

	if err := s.Serve(context.Background()); err != nil {
		log.Fatalf("timon-mcp: %v", err)
	}
}
