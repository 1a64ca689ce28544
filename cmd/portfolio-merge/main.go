package main

import (
	"flag"
	"log"
	"path/filepath"

	"aipe-market/internal/config"
	"aipe-market/internal/portfolio"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	input := flag.String("input", filepath.Join(cfg.OutputDir, "AIPEPortfolio_new.xlsx"), "uploaded portfolio workbook")
	output := flag.String("output", filepath.Join(cfg.OutputDir, "AIPEPortfolio.json"), "merged portfolio document")
	flag.Parse()

	if err := portfolio.Convert(*input, *output); err != nil {
		log.Fatalf("portfolio merge failed: %v", err)
	}
}
