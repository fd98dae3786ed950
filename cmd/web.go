package cmd

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zalepa/roadpenalties/internal/server"
)

//go:embed web.html
var htmlContent embed.FS

// Serve implements the "serve" subcommand.
func Serve(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	sf := addSourceFlags(fs)
	port := fs.String("port", "", "HTTP server port (overrides PORT)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roadpenalties serve [dir] [--port 8080]\n\nStart the interactive dashboard.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(reorderArgs(fs, args))

	log.SetPrefix("roadpenalties: ")
	cfg, dash, src := mustLoad(fs, sf)
	if *port != "" {
		cfg.Port = *port
	}
	log.Printf("loaded %d penalty and %d licence records from %s",
		len(dash.Data().Penalties), len(dash.Data().Licences), src)

	index, err := htmlContent.ReadFile("web.html")
	if err != nil {
		log.Fatalf("reading page: %v", err)
	}
	srv, err := server.New(dash, src, server.Options{
		Index:          index,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		Sessions:       cfg.Sessions,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hs.Shutdown(shutdown)
	}()

	fmt.Printf("serving on http://localhost%s\n", hs.Addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
