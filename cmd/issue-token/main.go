package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"auction-bidding/internal/config"
	"auction-bidding/internal/identity"
	model "auction-bidding/internal/models"
)

// issue-token mints a bearer token for local testing, signed with the server's JWT settings
func main() {
	var (
		bidderID = flag.String("bidder", "", "Bidder ID to embed in the token (required)")
		name     = flag.String("name", "", "Display name (defaults to the bidder ID)")
		ttl      = flag.Duration("ttl", 0, "Token lifetime; 0 uses JWT_TTL_HOURS")
		format   = flag.String("format", "text", "Output format: text or json")
	)
	flag.Parse()

	if *bidderID == "" {
		fmt.Fprintln(os.Stderr, "Usage: issue-token -bidder <id> [-name <display name>] [-ttl 2h] [-format text|json]")
		os.Exit(1)
	}
	if *name == "" {
		*name = *bidderID
	}

	cfg := config.Load()
	lifetime := cfg.JWTTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	resolver := identity.NewJWTResolver(cfg.JWTSecret, cfg.JWTIssuer, lifetime)
	token, err := resolver.IssueToken(model.BidderIdentity{BidderID: *bidderID, DisplayName: *name})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error issuing token: %v\n", err)
		os.Exit(2)
	}

	if *format == "json" {
		out := map[string]any{
			"token":      token,
			"bidder_id":  *bidderID,
			"name":       *name,
			"expires_at": time.Now().UTC().Add(lifetime).Format(time.RFC3339),
		}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(2)
		}
		return
	}
	fmt.Println(token)
}
