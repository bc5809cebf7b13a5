package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/linkedin-snapshot/internal/server/middleware"
	"github.com/jonathan/linkedin-snapshot/internal/types"
)

// maxBodyBytes caps request bodies; every request is a URL or a keyword.
const maxBodyBytes = 64 << 10

func (s *Server) retriever(skipCache bool) Retriever {
	if skipCache {
		return s.fresh
	}
	return s.service
}

// handleProfile retrieves one filtered profile
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req types.ProfileRequest
	if !s.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	profile, err := s.retriever(req.SkipCache).GetProfile(r.Context(), req.URL)
	if err != nil {
		s.pipelineError(w, r, "profile", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleJobListing retrieves one raw job posting
func (s *Server) handleJobListing(w http.ResponseWriter, r *http.Request) {
	var req types.JobListingRequest
	if !s.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	job, err := s.retriever(req.SkipCache).GetJobListing(r.Context(), req.URL)
	if err != nil {
		s.pipelineError(w, r, "job listing", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleJobSearch runs a keyword search and returns the filtered results
func (s *Server) handleJobSearch(w http.ResponseWriter, r *http.Request) {
	var req types.JobSearchRequest
	if !s.decodeRequest(w, r, &req, req.Validate) {
		return
	}

	jobs, err := s.retriever(req.SkipCache).SearchJobs(r.Context(), req.Keyword)
	if err != nil {
		s.pipelineError(w, r, "job search", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.JobSearchResponse{
		Keyword: req.Keyword,
		Count:   len(jobs),
		Jobs:    jobs,
	})
}

// decodeRequest reads a JSON body into req and validates it. It writes the error
// response itself and reports whether the handler should continue.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req any, validate func() error) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	if err := validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func (s *Server) pipelineError(w http.ResponseWriter, r *http.Request, what string, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		client, cerr := middleware.GetClient(r)
		if cerr != nil {
			client = clientID(r)
		}
		log.Printf("[ERROR] %s retrieval for %s failed: %v", what, client, err)
	}
	s.errorResponse(w, status, err.Error())
}
