package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/abhisek/codecoach/internal/taskparse"
	"github.com/abhisek/codecoach/internal/tutor"
)

func (s *Server) handleTutor(w http.ResponseWriter, r *http.Request) {
	if !s.configured {
		s.fail(w, r, http.StatusInternalServerError, tutor.MsgMisconfigured, nil)
		return
	}

	var q tutor.Question
	if err := s.decodeJSON(w, r, &q); err != nil {
		Error(w, http.StatusBadRequest, tutor.MsgInvalidJSON)
		return
	}
	if strings.TrimSpace(q.Question) == "" {
		Error(w, http.StatusBadRequest, tutor.MsgMissingQuestion)
		return
	}
	if !q.Mode.Valid() {
		q.Mode = tutor.ModeUnset
	}
	if level, err := tutor.ParseLevel(string(q.Level)); err == nil {
		q.Level = level
	} else {
		q.Level = tutor.LevelUnset
	}

	reply, err := s.tutor.Ask(r.Context(), q)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, tutor.MsgTutorUnavailable, err)
		return
	}
	JSON(w, http.StatusOK, tutor.TutorResponse{Result: reply.Result()})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if !s.configured {
		s.fail(w, r, http.StatusInternalServerError, tutor.MsgMisconfigured, nil)
		return
	}

	var req tutor.StarterRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, tutor.MsgInvalidJSON)
		return
	}
	if !req.Mode.Valid() {
		Error(w, http.StatusBadRequest, tutor.MsgMissingMode)
		return
	}

	suggestions, err := s.starters.Suggestions(r.Context(), req.Mode, req.UploadedTask)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, tutor.MsgSuggestionsFailed, err)
		return
	}
	JSON(w, http.StatusOK, tutor.StarterResponse{Suggestions: suggestions})
}

func (s *Server) handleFollowups(w http.ResponseWriter, r *http.Request) {
	if !s.configured {
		s.fail(w, r, http.StatusInternalServerError, tutor.MsgMisconfigured, nil)
		return
	}

	var req tutor.FollowupRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, tutor.MsgInvalidJSON)
		return
	}
	if req.SessionID == "" || !req.Mode.Valid() {
		Error(w, http.StatusBadRequest, tutor.MsgMissingFollowupArgs)
		return
	}

	tips, err := s.followups.Followups(r.Context(), req.SessionID, req.Mode, req.UploadedTask)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, tutor.MsgFollowupsFailed, err)
		return
	}
	JSON(w, http.StatusOK, tutor.FollowupResponse{Tips: tips})
}

func (s *Server) handleParsePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, taskparse.MsgFileTooLarge)
			return
		}
		Error(w, http.StatusBadRequest, taskparse.MsgNoFile)
		return
	}
	defer file.Close()

	if !taskparse.IsPDF(header.Filename, header.Header.Get("Content-Type")) {
		Error(w, http.StatusBadRequest, taskparse.MsgNotPDF)
		return
	}

	text, err := taskparse.ExtractPDF(file)
	if errors.Is(err, taskparse.ErrEmptyPDF) {
		Error(w, http.StatusBadRequest, taskparse.MsgEmptyPDF)
		return
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, taskparse.MsgPDFFailed, err)
		return
	}
	JSON(w, http.StatusOK, tutor.ParsePDFResponse{Text: text})
}
