package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rajat933788/cancerdetect-backend/internal/config"
	"github.com/rajat933788/cancerdetect-backend/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	defer s.Close()

	addr := ":" + cfg.Port
	fmt.Printf("cancerdetect server listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
