package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/williamthazard/react-test/internal/access"
	"github.com/williamthazard/react-test/internal/grading"
	"github.com/williamthazard/react-test/internal/mail"
	"github.com/williamthazard/react-test/internal/quiz"
	"github.com/williamthazard/react-test/internal/retry"
	"github.com/williamthazard/react-test/internal/service"
	"github.com/williamthazard/react-test/internal/store"
)

// Routes mounts the four boundary operations. Everything is POST with the
// access code in the body: the code is the credential, it stays out of
// URLs and logs.
func Routes(r chi.Router, svc *service.Service) {
	r.Post("/verify", VerifyHandler(svc))
	r.Post("/questions/load", LoadQuestionsHandler(svc))
	r.Post("/questions/save", SaveQuestionsHandler(svc))
	r.Post("/submit", SubmitHandler(svc))
}

type verifyReq struct {
	Code string `json:"code"`
}

type verifyResp struct {
	OK      bool                 `json:"ok"`
	Valid   bool                 `json:"valid"`
	Role    access.Role          `json:"role,omitempty"`
	Content *quiz.TestDefinition `json:"content,omitempty"`
}

// POST /api/verify
func VerifyHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		res, err := svc.Verify(r.Context(), req.Code)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, verifyResp{OK: true, Valid: true, Role: res.Role, Content: res.Content})
	}
}

type loadResp struct {
	OK      bool                 `json:"ok"`
	Content *quiz.TestDefinition `json:"content"`
}

// POST /api/questions/load
func LoadQuestionsHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		def, err := svc.Load(r.Context(), req.Code)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loadResp{OK: true, Content: def})
	}
}

type saveReq struct {
	Code    string               `json:"code"`
	Content *quiz.TestDefinition `json:"content"`
}

type saveResp struct {
	OK    bool `json:"ok"`
	Saved bool `json:"saved"`
}

// POST /api/questions/save
func SaveQuestionsHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if req.Content == nil {
			writeError(w, http.StatusBadRequest, "content required")
			return
		}
		if err := svc.Save(r.Context(), req.Code, req.Content); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saveResp{OK: true, Saved: true})
	}
}

type submitReq struct {
	Code    string            `json:"code"`
	Answers grading.AnswerSet `json:"answers"`
}

type submitResp struct {
	OK     bool           `json:"ok"`
	Report grading.Report `json:"report"`
}

// POST /api/submit
func SubmitHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		rep, err := svc.Submit(r.Context(), req.Code, req.Answers)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, submitResp{OK: true, Report: rep})
	}
}

type errResp struct {
	OK    bool   `json:"ok"`
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

// writeErr maps the error taxonomy onto statuses. Infrastructure
// unavailability gets 503 so the UI can say "try again later" instead of
// "wrong code"; configuration failures stay a generic 500 that never
// names the missing secret.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, access.ErrInvalidCode):
		writeError(w, http.StatusUnauthorized, "invalid access code")
	case errors.Is(err, access.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "not allowed for this role")
	case errors.Is(err, store.ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "test definition too large to store")
	case errors.Is(err, retry.ErrUnreachable):
		writeError(w, http.StatusServiceUnavailable, "service unreachable, try again later")
	case errors.Is(err, access.ErrNotConfigured), errors.Is(err, mail.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "server configuration error")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
