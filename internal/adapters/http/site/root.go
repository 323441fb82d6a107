// Package site serves the dashboard's embedded static assets.
package site

import (
	"context"
	"net/http"
)

// Register mounts the embedded assets under /assets/.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(FS())))
}
