package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/HSouheill/webinar_backend/middleware"
)

// Mints a service token for a backend that calls the settings store
func main() {
	name := flag.String("name", "", "service name, stored as the token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime, 0 for no expiry")
	flag.Parse()

	if *name == "" {
		log.Fatal("-name is required")
	}

	_ = godotenv.Load()
	secret := os.Getenv("INTERNAL_API_SECRET")
	if secret == "" {
		log.Fatal("INTERNAL_API_SECRET is not set")
	}

	token, err := middleware.GenerateServiceToken(secret, *name, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println("Service:", *name)
	if *ttl > 0 {
		fmt.Println("Expires:", time.Now().Add(*ttl).Format(time.RFC3339))
	}
	fmt.Println("Token:", token)
}
