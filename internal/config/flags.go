package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/loginkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the SQLite vault database (default from Config)
//	-t int      unlock session TTL in seconds (default from Config)
//	-b string   S3 bucket for encrypted backups
//	-e string   S3 base endpoint (e.g. a local MinIO)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-t", "-b", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.VaultPath, "d", cfg.VaultPath, "path to the vault database")
	sessionTTL := fs.Int("t", int(cfg.SessionTTL.Seconds()), "unlock session TTL (in seconds)")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for backups")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionTTL = time.Duration(*sessionTTL) * time.Second
}
