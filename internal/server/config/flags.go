package config

import (
	"flag"
	"os"

	"github.com/studyhub/studyhub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   listen address (default from Config)
//	-d string   PostgreSQL DSN; empty keeps the in-memory repository
//	-k string   token signing key
//	-i string   bootstrap admin invite code
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token signing key")
	fs.StringVar(&cfg.BootstrapInviteCode, "i", cfg.BootstrapInviteCode, "bootstrap admin invite code")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
