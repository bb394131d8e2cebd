package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"grocer/internal/domain"
)

func (s *Server) handleScrapeRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Site == "" {
		s.respondWithError(w, http.StatusBadRequest, "site is required")
		return
	}
	if req.SeedURL != "" {
		if _, err := url.ParseRequestURI(req.SeedURL); err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Invalid seed_url: "+req.SeedURL)
			return
		}
	}

	if err := s.scraper.StartRun(req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": "scrape run accepted",
		"site":    req.Site,
	})
}

func (s *Server) handlePersistRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.PersistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.File == "" {
		s.respondWithError(w, http.StatusBadRequest, "file is required")
		return
	}

	inserted, err := s.scraper.PersistFile(r.Context(), req.File)
	if err != nil {
		s.logger.Error("persist from file failed", zap.String("file", req.File), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not persist products")
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

func (s *Server) handleClosestPrice(w http.ResponseWriter, r *http.Request) {
	priceParam := r.URL.Query().Get("price")
	price, err := strconv.ParseFloat(priceParam, 64)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "price query parameter must be numeric")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("max_products"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 {
			s.respondWithError(w, http.StatusBadRequest, "max_products must be a positive integer")
			return
		}
	}

	products, err := s.pgStore.ClosestByPrice(r.Context(), price, limit)
	if err != nil {
		s.logger.Error("closest price query failed", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not query products")
		return
	}
	if products == nil {
		products = []domain.StoredProduct{}
	}

	s.respondWithJSON(w, http.StatusOK, products)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string)

	if err := s.pgStore.Ping(ctx); err != nil {
		healthStatus["postgres"] = "unhealthy"
		s.logger.Error("health check failed for postgres", zap.Error(err))
	} else {
		healthStatus["postgres"] = "healthy"
	}

	if err := s.redisStore.Ping(ctx); err != nil {
		healthStatus["redis"] = "unhealthy"
		s.logger.Error("health check failed for redis", zap.Error(err))
	} else {
		healthStatus["redis"] = "healthy"
	}

	if healthStatus["postgres"] != "healthy" || healthStatus["redis"] != "healthy" {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
