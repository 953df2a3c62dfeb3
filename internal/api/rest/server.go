package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"bullet-vision/internal/domain/entity"
	"bullet-vision/internal/logger"
)

const msgCannotReadImage = "Cannot read image!"

// DetectionService описывает то, что HTTP API требует от слоя приложения.
type DetectionService interface {
	Locate(ctx context.Context, photo []byte) (*entity.Detection, error)
	Annotate(ctx context.Context, photo []byte) ([]byte, *entity.Detection, error)
}

// Server отдаёт поиск пробоин по HTTP.
type Server struct {
	detections DetectionService
	maxBody    int64
	log        zerolog.Logger
	srv        *http.Server
}

// NewServer создаёт сервер; тело запроса ограничено maxBody байтами.
func NewServer(addr string, detections DetectionService, maxBody int64, log zerolog.Logger) *Server {
	s := &Server{
		detections: detections,
		maxBody:    maxBody,
		log:        logger.Component(log, "http"),
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler возвращает маршруты API вместе с CORS и логированием запросов.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/detect", s.handleDetect)
	mux.HandleFunc("/detect/annotated", s.handleAnnotated)
	return s.logRequests(withCORS(mux))
}

// ListenAndServe блокируется до остановки сервера.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("http server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown дожидается завершения активных запросов.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		methodNotAllowed(w)
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	result, err := s.detections.Locate(r.Context(), body)
	if err != nil {
		s.writeDetectError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewDetectResponse(result))
}

func (s *Server) handleAnnotated(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		methodNotAllowed(w)
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	img, result, err := s.detections.Annotate(r.Context(), body)
	if err != nil {
		s.writeDetectError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("X-Hole-Count", strconv.Itoa(result.Count()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// readBody читает тело с ограничением размера; при ошибке ответ уже записан.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err == nil {
		return body, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Image is too large!"})
		return nil, false
	}
	s.log.Warn().Err(err).Msg("read request body")
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgCannotReadImage})
	return nil, false
}

func (s *Server) writeDetectError(w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrInvalidImage) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgCannotReadImage})
		return
	}
	s.log.Error().Err(err).Msg("detection failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Detection failed"})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
