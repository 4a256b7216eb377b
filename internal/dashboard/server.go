// Package dashboard serves the collected dataset over HTTP: filtered
// listings, hashtag engagement, keyword trends and natural-language chat.
package dashboard

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/DankoOfficial/angrybird/internal/analyzer"
	"github.com/DankoOfficial/angrybird/internal/store"
	"github.com/DankoOfficial/angrybird/internal/trends"
)

// Server exposes the dataset file through a JSON API. The dataset is
// re-read per request; the scraper owns the file while a run is active, so
// the dashboard only ever sees complete renamed-into-place snapshots.
type Server struct {
	datasetPath string
	analyzer    *analyzer.Analyzer // nil disables /api/chat
	trends      *trends.Client     // nil disables /api/trends
	maxListRows int
	logger      zerolog.Logger
}

// New creates a dashboard server over the dataset at datasetPath.
func New(datasetPath string, an *analyzer.Analyzer, tr *trends.Client, maxListRows int, logger zerolog.Logger) *Server {
	return &Server{
		datasetPath: datasetPath,
		analyzer:    an,
		trends:      tr,
		maxListRows: maxListRows,
		logger:      logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/api/videos", s.handleVideos)
	r.Get("/api/videos.csv", s.handleVideosCSV)
	r.Get("/api/hashtags", s.handleHashtags)
	r.Get("/api/trends", s.handleTrends)
	r.Post("/api/chat", s.handleChat)

	return r
}

// load re-reads the dataset; a missing file is an empty dataset, not an
// error, matching the "backend has not run yet" case.
func (s *Server) load() ([]store.Video, error) {
	videos, err := store.LoadVideos(s.datasetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return videos, nil
}

func filterFromQuery(r *http.Request, maxRows int) Filter {
	q := r.URL.Query()
	limit := maxRows
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return Filter{
		Uploader:    q.Get("uploader"),
		MinLikes:    atoiDefault(q.Get("min_likes")),
		MinComments: atoiDefault(q.Get("min_comments")),
		SortBy:      q.Get("sort"),
		Descending:  q.Get("order") == "desc",
		Limit:       limit,
	}
}

func atoiDefault(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// VideosResponse is the filtered listing payload.
type VideosResponse struct {
	Total    int           `json:"total"`
	Returned int           `json:"returned"`
	Videos   []store.Video `json:"videos"`
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.load()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}

	filtered := filterFromQuery(r, s.maxListRows).Apply(videos)
	s.respondJSON(w, http.StatusOK, VideosResponse{
		Total:    len(videos),
		Returned: len(filtered),
		Videos:   filtered,
	})
}

func (s *Server) handleVideosCSV(w http.ResponseWriter, r *http.Request) {
	videos, err := s.load()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}

	filtered := filterFromQuery(r, 0).Apply(videos)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_tiktok_data.csv"`)

	cw := csv.NewWriter(w)
	cw.Write(store.Columns)
	for _, v := range filtered {
		cw.Write([]string{
			v.Uploader, v.UploadDate, v.Description,
			strconv.Itoa(v.Likes), strconv.Itoa(v.Comments),
			v.Favorites, strconv.Itoa(v.Shares), v.MusicText,
		})
	}
	cw.Flush()
}

func (s *Server) handleHashtags(w http.ResponseWriter, r *http.Request) {
	videos, err := s.load()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	s.respondJSON(w, http.StatusOK, TopHashtags(videos, limit))
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if s.trends == nil {
		s.respondError(w, http.StatusServiceUnavailable, "trend lookup not configured")
		return
	}
	term := r.URL.Query().Get("keyword")
	if term == "" {
		s.respondError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	keywords, err := s.trends.Search(r.Context(), term)
	if err != nil {
		s.logger.Error().Err(err).Str("keyword", term).Msg("trend lookup failed")
		s.respondError(w, http.StatusBadGateway, "trend lookup failed")
		return
	}
	s.respondJSON(w, http.StatusOK, keywords)
}

// ChatRequest is a natural-language question about the dataset.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse carries the model's answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "chat not configured: set an API key")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	videos, err := s.load()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}

	answer, err := s.analyzer.Ask(r.Context(), req.Question, videos)
	if err != nil {
		s.logger.Error().Err(err).Msg("chat failed")
		s.respondError(w, http.StatusBadGateway, "chat failed")
		return
	}
	s.respondJSON(w, http.StatusOK, ChatResponse{Answer: answer})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
