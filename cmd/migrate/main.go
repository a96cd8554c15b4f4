package main

import (
	"database/sql"
	"flag"
	"log"

	"crm-import/internal/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
)

func main() {
	dir := flag.String("dir", "./migrations", "migrations directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("mysql", cfg.GetDSN())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("mysql"); err != nil {
		log.Fatalf("goose dialect: %v", err)
	}
	if err := goose.Up(db, *dir); err != nil {
		log.Fatalf("goose up: %v", err)
	}
}
