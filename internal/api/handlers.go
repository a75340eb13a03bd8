package api

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codearena/internal/apierr"
	"codearena/internal/cache"
	"codearena/internal/jobid"
	"codearena/internal/model"
	"codearena/internal/ratelimit"
	"codearena/internal/registry"
	"codearena/internal/store"
)

// jobIDPattern is the grammar from spec.md §6.
var jobIDPattern = regexp.MustCompile(`^(job_|cached_)[A-Za-z0-9._]+$`)

type executeRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// handleExecute implements spec.md §4.2 submit: validate, charge the rate
// limit, check the cache, and either return a synchronous cache hit or
// enqueue and return the job id.
func (s *Server) handleExecute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.Validationf("malformed request body"))
		return
	}
	if !registry.Has(req.Language) {
		respondError(c, apierr.Validationf("unsupported language: "+req.Language))
		return
	}
	if len(req.Code) < 1 || len(req.Code) > model.MaxCodeBytes {
		respondError(c, apierr.Validationf("code must be between 1 and 65536 bytes"))
		return
	}

	callerFP := ratelimit.FingerprintCaller(c.ClientIP())

	// Incremented before the cache lookup so a cache hit still costs
	// budget (spec.md §4.2 step 4).
	allowed, err := s.limiter.Allow(c.Request.Context(), callerFP)
	if err != nil {
		if s.log != nil {
			s.log.Error("rate limiter check failed", zap.Error(err))
		}
		respondError(c, apierr.Internalf("rate limiter unavailable"))
		return
	}
	if !allowed {
		respondError(c, apierr.RateLimit())
		return
	}

	fingerprint := cache.Fingerprint(req.Language, req.Code)
	if result, err := s.cache.Get(c.Request.Context(), fingerprint); err == nil {
		result.Cached = true
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"job_id":  jobid.NewCached(),
			"status":  string(model.StatusCompleted),
			"cached":  true,
			"result":  result,
		})
		return
	} else if !errors.Is(err, cache.ErrMiss) {
		if s.log != nil {
			s.log.Error("cache lookup failed", zap.Error(err))
		}
		respondError(c, apierr.Internalf("cache unavailable"))
		return
	}

	id := jobid.New()
	now := model.Now()
	job := model.Job{
		ID:                id,
		Language:          req.Language,
		Code:              req.Code,
		SubmittedAt:       now,
		ClientFingerprint: callerFP,
	}

	if err := s.results.SetStatus(c.Request.Context(), id, model.StatusRecord{
		Status:    model.StatusPending,
		CreatedAt: now,
	}); err != nil {
		if s.log != nil {
			s.log.Error("set status pending failed", zap.Error(err))
		}
		respondError(c, apierr.Internalf("could not enqueue job"))
		return
	}

	if err := s.queue.Push(c.Request.Context(), job); err != nil {
		if s.log != nil {
			s.log.Error("queue push failed", zap.Error(err))
		}
		respondError(c, apierr.Internalf("could not enqueue job"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"job_id":  id,
		"status":  "queued",
		"cached":  false,
	})
}

// handleStatus implements spec.md §4.2 status: result key first, then
// status key, then 404 absent.
func (s *Server) handleStatus(c *gin.Context) {
	id := c.Query("job_id")
	if !jobIDPattern.MatchString(id) {
		respondError(c, apierr.Validationf("malformed job_id"))
		return
	}

	if result, err := s.results.GetResult(c.Request.Context(), id); err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"job_id":  id,
			"status":  string(model.StatusCompleted),
			"result":  result,
		})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		if s.log != nil {
			s.log.Error("result lookup failed", zap.Error(err))
		}
		respondError(c, apierr.Internalf("status lookup unavailable"))
		return
	}

	rec, err := s.results.GetStatus(c.Request.Context(), id)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"job_id":     id,
			"status":     string(rec.Status),
			"created_at": rec.CreatedAt,
		})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		if s.log != nil {
			s.log.Error("status lookup failed", zap.Error(err))
		}
		respondError(c, apierr.Internalf("status lookup unavailable"))
		return
	}

	respondError(c, apierr.NotFoundf("job not found"))
}

// handleLanguages implements spec.md §4.2 list-languages.
func (s *Server) handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"languages": registry.PublicView(),
		"rate_limit": gin.H{
			"max":            s.limiter.Max(),
			"window_seconds": s.limiter.WindowSeconds(),
		},
	})
}

func respondError(c *gin.Context, e *apierr.Error) {
	c.JSON(e.StatusCode(), gin.H{
		"success": false,
		"error":   e.Message,
	})
}
