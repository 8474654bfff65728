/* main.go
 * The "main" method for running the bracket pool server.
 * Usage: go run main.go -addr=":8080" -db="bracket_pool"
 * Environment: MONGO_URI, JWT_SECRET, ADMIN_TOKEN and optionally
 * DISCORD_TOKEN and DISCORD_CHANNEL_ID for announcements.
 */

package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"bracket-pool/api"
	"bracket-pool/api/store"
	"bracket-pool/notify"
	"bracket-pool/web"
)

func main() {
	err := godotenv.Load()

	// Flags
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "bracket_pool", "Mongo database name")

	flag.Parse()

	if err != nil {
		log.Println("No .env file loaded, using process environment")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()
	s, err := store.NewStore(ctx, *dbPtr, mongoURI)
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	defer func() {
		if err := s.Client.Disconnect(context.TODO()); err != nil {
			log.Println("failed to disconnect mongo client:", err)
		}
	}()

	a := api.NewAPI(s)

	// Discord announcements are optional; run without them if no token is set.
	discordToken := os.Getenv("DISCORD_TOKEN")
	channelID := os.Getenv("DISCORD_CHANNEL_ID")
	if discordToken != "" && channelID != "" {
		session, err := discordgo.New("Bot " + discordToken)
		if err != nil {
			log.Fatalf("failed to create discord session: %v", err)
		}
		if err := session.Open(); err != nil {
			log.Fatalf("failed to open discord session: %v", err)
		}
		defer session.Close()
		a.Notifier = notify.NewDiscordNotifier(session, channelID)
		log.Println("Discord announcements enabled for channel", channelID)
	}

	err = web.Start(web.Config{
		Addr:       *addrPtr,
		JWTSecret:  jwtSecret,
		AdminToken: os.Getenv("ADMIN_TOKEN"),
		Backend:    a,
	})
	if err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
