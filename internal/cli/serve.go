package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/wkchan/rainripple/internal/web"
)

// mediaExts is the set of file extensions listed and served by the
// playback server.
var mediaExts = map[string]bool{
	".gif":  true,
	".mp4":  true,
	".webm": true,
	".png":  true,
}

// serveCommand creates the serve command. It serves rendered artifacts from a
// directory with a small embedded playback page.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve rendered artifacts with a playback page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runServe(cmd, dir, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, dir, addr string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("serve: not a directory: " + dir)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServeHandler(dir),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx := cmd.Context()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	c.Logger.Infof("Serving %s on http://localhost%s", dir, addr)

	select {
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := newShutdownContext()
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newServeHandler builds the router: the embedded playback page at /, a JSON
// artifact listing at /api/artifacts, raw files under /media/, and a health
// probe at /healthz.
func newServeHandler(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(web.IndexHTML)
	})

	r.Get("/api/artifacts", func(w http.ResponseWriter, req *http.Request) {
		artifacts, err := listArtifacts(dir)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(artifacts)
	})

	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(dir))))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// artifact is one entry of the /api/artifacts listing.
type artifact struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_human"`
	Modified  string `json:"modified"`
}

// listArtifacts returns the media files directly under dir, newest first.
func listArtifacts(dir string) ([]artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	artifacts := make([]artifact, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !mediaExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, artifact{
			Name:      e.Name(),
			Size:      info.Size(),
			SizeHuman: formatBytes(info.Size()),
			Modified:  info.ModTime().UTC().Format(time.RFC3339),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].Modified != artifacts[j].Modified {
			return artifacts[i].Modified > artifacts[j].Modified
		}
		return artifacts[i].Name < artifacts[j].Name
	})
	return artifacts, nil
}

// newShutdownContext bounds graceful shutdown so a hung connection cannot
// keep the process alive after interrupt.
func newShutdownContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
