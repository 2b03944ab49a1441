package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/nao1215/phishscan/internal/page"
	"github.com/nao1215/phishscan/internal/submit"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

// handleIndex serves the scan form with the current history.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.session(w, r)

	doc, err := page.Index(page.Options{
		History: s.history.Render(r.Context()),
		Action:  FormPath,
	})
	if err != nil {
		s.logger.Error("failed to render index page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.writeHTML(w, http.StatusOK, doc)
}

// handlePredict runs one submission and shows the resulting page.
//
// Invalid input re-renders the form with the field marked (422) and never
// reaches the prediction endpoint. A second submit from the same session
// while one is running is refused with 429.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.logger)

	gate := s.gates.Get(s.session(w, r))
	if err := gate.TryAcquire(); err != nil {
		logger.Info("submission refused", "reason", err)
		http.Error(w, "A scan is already in progress", http.StatusTooManyRequests)
		return
	}
	defer gate.Release()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	input := r.PostForm.Get("url")

	sub, err := s.newPipeline(logger).Run(r.Context(), input, s.action)
	switch {
	case errors.Is(err, submit.ErrInvalidURL):
		s.renderInvalid(w, r, input)
		return
	case err != nil:
		logger.Error("submission failed", "url", input, "error", err)
		http.Error(w, "The prediction service is unavailable", http.StatusBadGateway)
		return
	}

	status := sub.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	s.writeHTML(w, status, sub.Navigation.Document)
}

// renderInvalid re-renders the index page with the rejected input kept in
// the url field.
func (s *Server) renderInvalid(w http.ResponseWriter, r *http.Request, input string) {
	doc, err := page.Index(page.Options{
		History: s.history.Render(r.Context()),
		Action:  FormPath,
		Invalid: &page.InvalidInput{Value: input},
	})
	if err != nil {
		s.logger.Error("failed to render index page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.writeHTML(w, http.StatusUnprocessableEntity, doc)
}

// renderResult applies the page transforms to a result document. It is
// the document renderer of the submission pipeline and runs after the
// record step, so the history already holds the new entry.
func (s *Server) renderResult(ctx context.Context, document string) (string, error) {
	return page.EnhanceString(document, page.Options{
		History: s.history.Render(ctx),
		Action:  FormPath,
	})
}

// handleHistoryFragment serves the rendered history markup.
func (s *Server) handleHistoryFragment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	s.writeHTML(w, http.StatusOK, s.history.Render(r.Context()))
}

// handleHistoryJSON serves the history as JSON.
//
// The ETag is the SHA3-256 of the body. The stored list only changes on a
// record, so unchanged history always yields the same tag.
func (s *Server) handleHistoryJSON(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(s.history.Read(r.Context()))
	if err != nil {
		s.logger.Error("failed to encode history", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	tag := ETag(body)

	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Error("failed to write history response", "error", err)
	}
}

// ETag returns the strong entity tag of body.
func ETag(body []byte) string {
	sum := sha3.Sum256(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// etagMatches reports whether an If-None-Match header matches tag.
func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}

// session returns the session id of the request, issuing a new cookie
// when the request has none or a malformed one.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// writeHTML writes an HTML response.
func (s *Server) writeHTML(w http.ResponseWriter, status int, doc string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if _, err := w.Write([]byte(doc)); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
