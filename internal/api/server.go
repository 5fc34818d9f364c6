// Package api serves the studio over HTTP: session lifecycle, roster
// and artwork uploads, view transitions and the export flows. It is a
// single-user studio surface; identity lives with the points
// collaborator, not here.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	kferrors "github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/export"
	"github.com/kitforge/kitforge/pkg/roster"
	"github.com/kitforge/kitforge/pkg/scene"
	"github.com/kitforge/kitforge/pkg/studio"
	"github.com/kitforge/kitforge/pkg/view"
)

// Server owns the session registry and builds per-session studios from
// one shared config.
type Server struct {
	cfg    studio.Config
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*studio.Session
}

// NewServer creates a server spawning sessions from cfg.
func NewServer(cfg studio.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*studio.Session),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/session", s.handleCreateSession)
	r.Route("/session/{id}", func(r chi.Router) {
		r.Put("/roster", s.withSession(s.handleSetRoster))
		r.Put("/images", s.withSession(s.handleSetImages))
		r.Post("/view", s.withSession(s.handleSelectView))
		r.Post("/export", s.withSession(s.handleExport))
		r.Get("/template", s.withSession(s.handleTemplate))
		r.Delete("/template", s.withSession(s.handleClearTemplate))
		r.Delete("/", s.withSession(s.handleCloseSession))
	})
	return r
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *studio.Session)

func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		sess, ok := s.sessions[id]
		s.mu.Unlock()
		if !ok {
			writeError(w, kferrors.New(kferrors.ErrCodeSessionNotFound, "no session %s", id))
			return
		}
		h(w, r, sess)
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := studio.NewSession(r.Context(), s.cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.logger.Info("session created", "id", sess.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	if err := sess.Close(); err != nil {
		s.logger.Warn("session close", "id", sess.ID, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetRoster accepts the roster as JSON, or as CSV when the
// request carries a text/csv content type.
func (s *Server) handleSetRoster(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	var (
		team roster.Roster
		err  error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "csv") {
		team, err = roster.ParseCSV(r.Body)
	} else {
		team, err = roster.ParseJSON(r.Body)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if err := sess.SetRoster(team); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"players": len(team)})
}

func (s *Server) handleSetImages(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	var set view.ImageSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeError(w, kferrors.Wrap(kferrors.ErrCodeInvalidAssetRef, err, "decode image set"))
		return
	}
	if err := sess.SetImageSet(r.Context(), set); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type viewRequest struct {
	View   string `json:"view"`
	Player *int   `json:"player,omitempty"`
}

func (s *Server) handleSelectView(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, kferrors.Wrap(kferrors.ErrCodeInvalidView, err, "decode view request"))
		return
	}

	if req.Player != nil {
		if err := sess.SelectPlayer(r.Context(), *req.Player); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.View != "" {
		v, err := scene.ParseView(req.View)
		if err != nil {
			writeError(w, kferrors.Wrap(kferrors.ErrCodeInvalidView, err, "select view"))
			return
		}
		if err := sess.SelectView(r.Context(), v); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"view": string(sess.CurrentView())})
}

type exportRequest struct {
	Mode      string `json:"mode"` // view, component, all, bulk
	Quality   string `json:"quality"`
	Component string `json:"component,omitempty"`
}

type exportResponse struct {
	Files []string `json:"files"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, kferrors.Wrap(kferrors.ErrCodeInvalidQuality, err, "decode export request"))
		return
	}
	quality, err := export.ParseQuality(req.Quality)
	if err != nil {
		writeError(w, err)
		return
	}

	var files []string
	switch req.Mode {
	case "", "view":
		path, err := sess.ExportView(r.Context(), quality)
		if err != nil {
			writeError(w, err)
			return
		}
		files = []string{path}
	case "component":
		kind, err := parseComponent(req.Component)
		if err != nil {
			writeError(w, err)
			return
		}
		path, err := sess.ExportComponent(r.Context(), kind, quality)
		if err != nil {
			writeError(w, err)
			return
		}
		files = []string{path}
	case "all":
		files, err = sess.ExportAll(r.Context(), quality)
		if err != nil {
			writeError(w, err)
			return
		}
	case "bulk":
		path, err := sess.ExportBulk(r.Context(), quality)
		if err != nil {
			writeError(w, err)
			return
		}
		files = []string{path}
	default:
		writeError(w, kferrors.New(kferrors.ErrCodeUnsupported, "unknown export mode %q", req.Mode))
		return
	}
	writeJSON(w, http.StatusOK, exportResponse{Files: files})
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	writeJSON(w, http.StatusOK, sess.Template())
}

func (s *Server) handleClearTemplate(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	if err := sess.ClearTemplate(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseComponent(name string) (scene.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "leftsleeve", "left-sleeve", "left_sleeve":
		return scene.KindSleeveLeft, nil
	case "rightsleeve", "right-sleeve", "right_sleeve":
		return scene.KindSleeveRight, nil
	case "collar":
		return scene.KindCollar, nil
	}
	return scene.KindUnknown, kferrors.New(kferrors.ErrCodeComponentNotFound, "unknown component %q", name)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := kferrors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{
		Code:    string(code),
		Message: kferrors.UserMessage(err),
	})
}

func statusFor(code kferrors.Code) int {
	switch code {
	case kferrors.ErrCodeInvalidRoster, kferrors.ErrCodeInvalidView, kferrors.ErrCodeInvalidQuality,
		kferrors.ErrCodeInvalidAssetRef, kferrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case kferrors.ErrCodeNotFound, kferrors.ErrCodePlayerNotFound,
		kferrors.ErrCodeComponentNotFound, kferrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case kferrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case kferrors.ErrCodeInsufficientPoints:
		return http.StatusPaymentRequired
	case kferrors.ErrCodeEmptyExport:
		return http.StatusUnprocessableEntity
	case kferrors.ErrCodeDeductionFailed, kferrors.ErrCodeBulkAborted, kferrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case kferrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case kferrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
