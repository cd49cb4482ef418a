package server

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/rajat933788/cancerdetect-backend/internal/store"
	"github.com/rajat933788/cancerdetect-backend/internal/types"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// GET /api/testimonials
func (s *Server) handleListTestimonials(w http.ResponseWriter, r *http.Request) {
	var (
		testimonials []store.Testimonial
		err          error
	)
	if s.databaseStore != nil {
		testimonials, err = s.databaseStore.ListTestimonials()
		if err != nil {
			log.Printf("[testimonials] list failed: %v", err)
			s.writeError(w, http.StatusInternalServerError, "failed to load testimonials")
			return
		}
	} else {
		testimonials = s.store.Testimonials()
	}
	if testimonials == nil {
		testimonials = []store.Testimonial{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(testimonials)
}

// POST /api/testimonials
func (s *Server) handleAddTestimonial(w http.ResponseWriter, r *http.Request) {
	var req types.TestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name := strings.TrimSpace(req.Name)
	message := strings.TrimSpace(req.Message)
	if name == "" || message == "" {
		s.writeError(w, http.StatusBadRequest, "name and message are required")
		return
	}

	if s.databaseStore != nil {
		if err := s.databaseStore.SaveTestimonial(name, message); err != nil {
			log.Printf("[testimonials] save failed: %v", err)
			s.writeError(w, http.StatusInternalServerError, "failed to save testimonial")
			return
		}
	} else {
		s.store.SaveTestimonial(store.Testimonial{Name: name, Message: message})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "created"})
}

// POST /api/newsletter
func (s *Server) handleNewsletterSubscribe(w http.ResponseWriter, r *http.Request) {
	var req types.NewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		s.writeError(w, http.StatusBadRequest, "a valid email address is required")
		return
	}

	if s.databaseStore != nil {
		if err := s.databaseStore.AddSubscriber(email); err != nil {
			log.Printf("[newsletter] subscribe failed: %v", err)
			s.writeError(w, http.StatusInternalServerError, "failed to subscribe")
			return
		}
	} else {
		s.store.AddSubscriber(email)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "subscribed"})
}

// GET /api/news
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	articles, err := s.newsClient.Latest(r.Context())
	if err != nil {
		log.Printf("[news] fetch failed: %v", err)
		s.writeError(w, http.StatusBadGateway, "news feed is unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"articles": articles})
}
