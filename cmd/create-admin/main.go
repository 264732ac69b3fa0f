package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"solar-store/auth"
	"solar-store/config"
)

func main() {
	username := flag.String("username", "", "Username for the admin account")
	password := flag.String("password", "", "Password for the admin account")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Println("username and password are required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db, err := config.InitDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	created, err := auth.EnsureAdmin(context.Background(), db, *username, *password)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	if !created {
		fmt.Printf("User '%s' already exists.\n", *username)
		return
	}
	fmt.Printf("Admin '%s' created successfully.\n", *username)
}
