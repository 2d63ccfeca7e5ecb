package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/services"
)

const maxJSONBodyBytes = 1 << 20

type apiServer struct {
	bind   string
	token  string
	logger *slog.Logger
	daemon *Daemon

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		token:  strings.TrimSpace(cfg.Paths.APIToken),
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}
	srv.server = &http.Server{
		Handler:           srv.routes(cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) routes(cfg *config.Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/listings", s.handleListListings)
	mux.HandleFunc("GET /api/listings/{id}", s.handleListingDetail)
	mux.HandleFunc("GET /api/listings/{id}/release", s.handleListingRelease)
	mux.HandleFunc("GET /resolve-image", s.handleResolveImage)

	mux.HandleFunc("GET /api/admin/listings/{id}", authMiddleware(s.token, s.handleAdminGet))
	mux.HandleFunc("POST /api/listings", authMiddleware(s.token, s.handleCreateListing))
	mux.HandleFunc("PUT /api/listings/{id}", authMiddleware(s.token, s.handleUpdateListing))
	mux.HandleFunc("DELETE /api/listings/{id}", authMiddleware(s.token, s.handleDeleteListing))
	mux.HandleFunc("POST /api/listings/{id}/assets/resolve", authMiddleware(s.token, s.handleResolveAsset))
	mux.HandleFunc("POST /api/listings/{id}/assets/upload", authMiddleware(s.token, s.handleUploadAsset))

	if prefix := uploadRoutePrefix(cfg.Storage.PublicBaseURL); prefix != "" && cfg.Paths.UploadDir != "" {
		files := http.StripPrefix(strings.TrimSuffix(prefix, "/"), http.FileServer(noDirFS{http.Dir(cfg.Paths.UploadDir)}))
		mux.Handle("GET "+prefix, files)
	}
	return requestIDMiddleware(mux)
}

// uploadRoutePrefix returns the mux pattern serving uploads when the public
// base URL is a local path.
func uploadRoutePrefix(publicBaseURL string) string {
	base := strings.TrimSpace(publicBaseURL)
	if !strings.HasPrefix(base, "/") || strings.HasPrefix(base, "//") {
		return ""
	}
	return strings.TrimRight(base, "/") + "/"
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("paths.api_bind is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.daemon.store.Ping(r.Context()); err != nil {
		s.writeError(w, r, services.Wrap(services.ErrTransient, "daemon", "health", "catalog store unreachable", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.daemon.Status(r.Context()))
}

func (s *apiServer) handleListListings(w http.ResponseWriter, r *http.Request) {
	items, err := s.daemon.services.Listings.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []api.ListingSummary{}
	}
	s.writeJSON(w, http.StatusOK, api.ListingListResponse{Items: items})
}

func (s *apiServer) handleListingDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	listing, err := s.daemon.services.Listings.Detail(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listing)
}

func (s *apiServer) handleListingRelease(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	info, err := s.daemon.services.Listings.Release(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *apiServer) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.daemon.services.Admin.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *apiServer) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	var input api.ListingInput
	if !s.decodeJSON(w, r, &input) {
		return
	}
	rec, err := s.daemon.services.Admin.Create(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *apiServer) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var input api.ListingInput
	if !s.decodeJSON(w, r, &input) {
		return
	}
	rec, err := s.daemon.services.Admin.Update(r.Context(), id, input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *apiServer) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.daemon.services.Admin.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleResolveAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req api.ResolveAssetRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	result, err := s.daemon.services.Admin.ResolveAsset(r.Context(), id, req.Field, req.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	limit := s.daemon.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+64*1024)
	if err := r.ParseMultipartForm(limit); err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "daemon", "upload", "invalid multipart form", err))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "daemon", "upload", "missing file part", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "daemon", "upload", "read file part", err))
		return
	}
	result, err := s.daemon.services.Admin.UploadAsset(r.Context(), id, r.FormValue("field"), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid listing id"})
		return 0, false
	}
	return id, true
}

func (s *apiServer) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

// writeError maps service errors to status codes. Resolution failures carry
// the resolution service's message verbatim.
func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var resolveErr *api.ResolveError
	if errors.As(err, &resolveErr) {
		s.writeJSON(w, http.StatusUnprocessableEntity, api.ErrorResponse{Error: resolveErr.Message})
		return
	}
	status := services.HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "request failed", "api_request_failed",
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err))
		if status == http.StatusInternalServerError {
			message = "internal error"
		}
	}
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func writeRawError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: message})
}

// noDirFS hides directory listings from the uploads file server.
type noDirFS struct {
	fs http.FileSystem
}

func (n noDirFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
