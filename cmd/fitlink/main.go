package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	flags "github.com/jessevdk/go-flags"

	"github.com/viant/fitlink/auth"
	"github.com/viant/fitlink/event"
	"github.com/viant/fitlink/registry"
	"github.com/viant/fitlink/server"
	"github.com/viant/fitlink/store"
)

// Opts is the command line surface. The provider endpoints, scopes and the
// loopback port are fixed, only the application credential and local
// housekeeping are configurable.
type Opts struct {
	ClientID     string        `long:"client-id" env:"FITLINK_CLIENT_ID" required:"true" description:"fitbit application client id"`
	ClientSecret string        `long:"client-secret" env:"FITLINK_CLIENT_SECRET" required:"true" description:"fitbit application client secret"`
	DataDir      string        `long:"data" env:"FITLINK_DATA" default:"." description:"directory for the credentials and tokens files"`
	Timeout      time.Duration `long:"timeout" env:"FITLINK_TIMEOUT" default:"5m" description:"how long to wait for the browser consent"`
	Dbg          bool          `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "unknown"

func main() {
	fmt.Printf("fitlink %s\n", revision)

	var opts Opts
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	setupLog(opts.Dbg)

	if err := run(opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func run(opts Opts) error {
	log.Printf("[INFO] link run %s", uuid.New().String())

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	queue := event.NewQueue(32)
	sink := event.Func(func(message string, status bool) {
		log.Printf("[INFO] %s", message)
		queue.Emit(message, status)
	})

	reg := registry.New()
	credentials := store.NewCredentials(filepath.Join(opts.DataDir, "credentials.json"))
	tokens := store.NewTokens(filepath.Join(opts.DataDir, "fitbit_tokens.json"))

	srv := server.New(server.Config{
		Registry: reg,
		Tokens:   tokens,
		Sink:     sink,
	})

	service := auth.New(credentials, reg, srv, sink)
	message, err := service.Authorize(ctx, opts.ClientID, opts.ClientSecret)
	if err != nil {
		return err
	}
	fmt.Println(message)

	// the callback leg completes on the listener goroutine, wait for its
	// status event before exiting
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("authorization not completed: %w", ctx.Err())
		case msg := <-queue.C():
			if msg.Status {
				fmt.Println(msg.Text)
				return nil
			}
		}
	}
}

func setupLog(dbg bool) {
	if dbg {
		log.Setup(log.Debug, log.CallerFile, log.Msec, log.LevelBraces)
		return
	}
	log.Setup(log.Msec, log.LevelBraces)
}
