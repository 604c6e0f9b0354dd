package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/JRocha1994/archi-track/internal/auth"
	"github.com/JRocha1994/archi-track/internal/config"
	"github.com/JRocha1994/archi-track/internal/sqlstore"
)

const usage = `usage:
  server                                   run the API (transport from config)
  server apikey create -owner ID [-description TEXT]
  server apikey revoke -key KEY
  server token -owner ID [-ttl DURATION]   issue a JWT (auth mode jwt)`

// runCommand runs the administrative subcommands. They share the server's
// configuration, so they act on the same database and JWT secret.
func runCommand(cfg config.Config, args []string) error {
	switch args[0] {
	case "apikey":
		if len(args) < 2 {
			return errors.New(usage)
		}
		switch args[1] {
		case "create":
			return createAPIKey(cfg, args[2:])
		case "revoke":
			return revokeAPIKey(cfg, args[2:])
		}
	case "token":
		return issueToken(cfg, args[1:])
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	}
	return errors.New(usage)
}

func createAPIKey(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("apikey create", flag.ContinueOnError)
	owner := fs.String("owner", "", "owner the key acts for")
	description := fs.String("description", "", "note stored with the key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *owner == "" {
		return errors.New("-owner is required")
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	key, err := auth.GenerateKey()
	if err != nil {
		return err
	}
	if err := sqlstore.NewAPIKeyRepository(db).Create(context.Background(), *owner, auth.HashKey(key), *description); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}
	// Only the hash is stored; this is the one chance to see the key.
	fmt.Fprintln(os.Stdout, key)
	return nil
}

func revokeAPIKey(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("apikey revoke", flag.ContinueOnError)
	key := fs.String("key", "", "api key to revoke")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *key == "" {
		return errors.New("-key is required")
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return sqlstore.NewAPIKeyRepository(db).Revoke(context.Background(), auth.HashKey(*key))
}

func issueToken(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	owner := fs.String("owner", "", "owner the token acts for")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *owner == "" {
		return errors.New("-owner is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("ARCHITRACK_JWT_SECRET is not set")
	}

	token, err := auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer).Issue(*owner, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, token)
	return nil
}
