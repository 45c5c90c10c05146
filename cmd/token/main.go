// Command token issues a bearer token for a group member, signed with the
// server's JWT_SECRET.
//
//	go run ./cmd/token -member alice -name Alice
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/settle/internal/auth"
	"github.com/mmynk/settle/internal/config"
	"github.com/mmynk/settle/pkg/logging"
)

func main() {
	memberID := flag.String("member", "", "member ID to issue the token for")
	name := flag.String("name", "", "display name carried in the token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(*memberID, *name)
	if err != nil {
		slog.Error("Failed to issue token", "member_id", *memberID, "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
