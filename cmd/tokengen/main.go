// Command tokengen mints bearer tokens for local development.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fastprodman/dicevault/internal/api"
	"github.com/fastprodman/dicevault/internal/config"
	"github.com/fastprodman/dicevault/pkg/envconf"
)

func main() {
	sub := flag.String("sub", "", "caller identity (token subject)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *sub == "" {
		fmt.Fprintln(os.Stderr, "usage: tokengen -sub <identity> [-ttl 24h]")
		os.Exit(2)
	}

	var cfg config.AuthConfig

	err := envconf.Load(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	token, err := api.NewAuthenticator(cfg.JWTSecret).Issue(*sub, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
