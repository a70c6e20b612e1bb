package main

import (
	"context"
	"flag"
	"log"
	"os"

	"retroshop/internal/config"
	"retroshop/internal/db"
	"retroshop/internal/importer"
	productrepo "retroshop/internal/repository/product"
)

func main() {
	path := flag.String("file", "", "path to catalog CSV")
	flag.Parse()

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if *path == "" {
		logger.Fatal("usage: importer -file catalog.csv")
	}

	cfg := config.FromEnv()
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, int32(cfg.DBMaxConns))
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	repo := productrepo.NewPostgres(pool, logger)
	count, err := importer.NewCSVImporter(f, repo).Run(ctx)
	if err != nil {
		logger.Fatalf("import: %v", err)
	}

	logger.Printf("imported %d products", count)
}
