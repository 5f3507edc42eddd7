package main

import (
	"flag"
	"log"
	"time"

	"support-chat/auth"
	"support-chat/domain"

	"github.com/gookit/color"
)

// Mints a test JWT so a websocket client (wscat, browser console) can
// connect without going through /api/register first.
func main() {
	participantID := flag.String("id", "tester-1", "Participant id to embed in the token")
	role := flag.String("role", "requester", "Role: agent or requester")
	duration := flag.Duration("duration", 24*time.Hour, "Token validity")
	flag.Parse()

	r := domain.Role(*role)
	if !r.Valid() {
		log.Fatalf("invalid role %q (want agent or requester)", *role)
	}

	token, err := auth.GenerateToken(*participantID, r, *duration)
	if err != nil {
		log.Fatal("token generation failed: ", err)
	}

	color.Cyan.Printf("Participant : %s (%s)\n", *participantID, r)
	color.Cyan.Printf("Valid for   : %s\n", *duration)
	color.Green.Println("\n" + token)
	color.Gray.Printf("\nws://localhost:8080/ws?token=%s\n", token)
}
