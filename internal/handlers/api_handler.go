package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"abacusisland/internal/generator"
	"abacusisland/internal/logger"
	"abacusisland/internal/metrics"
	"abacusisland/internal/models"
	"abacusisland/internal/progress"
	"abacusisland/internal/service"
)

// APIHandler serves the JSON practice API
type APIHandler struct {
	practice   *service.PracticeService
	backups    *service.BackupService
	middleware *Middleware
	log        *logger.Logger
	now        func() time.Time
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(practice *service.PracticeService, backups *service.BackupService, middleware *Middleware, log *logger.Logger) *APIHandler {
	return &APIHandler{
		practice:   practice,
		backups:    backups,
		middleware: middleware,
		log:        log,
		now:        time.Now,
	}
}

// Register adds every API route to mux
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/paths", h.Paths)
	mux.HandleFunc("GET /api/learning-path", h.GetLearningPath)
	mux.HandleFunc("PUT /api/learning-path", h.SetLearningPath)
	mux.HandleFunc("GET /api/levels/{id}", h.Level)
	mux.HandleFunc("GET /api/levels/{id}/problems/{index}", h.Problem)
	mux.HandleFunc("GET /api/levels/{id}/stages/{stage}/next", h.NextProblem)
	mux.HandleFunc("GET /api/levels/{id}/stages/{stage}/progress", h.StageProgress)
	mux.HandleFunc("POST /api/answers", h.middleware.RateLimit(h.SubmitAnswer))
	mux.HandleFunc("POST /api/shuffle", h.Shuffle)
	mux.HandleFunc("POST /api/reset", h.Reset)
	mux.HandleFunc("GET /api/streak", h.Streak)
	mux.HandleFunc("GET /api/logs", h.Logs)
	mux.HandleFunc("GET /api/backup", h.ExportBackup)
	mux.HandleFunc("POST /api/backup", h.middleware.RateLimit(h.ImportBackup))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// respondWithServiceError maps domain errors to HTTP statuses
func (h *APIHandler) respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, progress.ErrUnknownLevel), errors.Is(err, progress.ErrUnknownStage):
		respondWithError(w, h.log, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, progress.ErrInvalidIndex):
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidIndex, "", nil)
	case errors.Is(err, progress.ErrInvalidMode):
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidMode, "", nil)
	case errors.Is(err, progress.ErrUnknownPath):
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidPath, "", nil)
	case errors.Is(err, service.ErrBackupVersion):
		respondWithError(w, h.log, http.StatusBadRequest, err.Error(), "", nil)
	default:
		respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "", err)
	}
}

// pathInt parses an integer path value
func pathInt(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	return v, err == nil
}

func modeParam(r *http.Request) (models.PracticeMode, bool) {
	mode := models.PracticeMode(r.URL.Query().Get("mode"))
	if mode == "" {
		return models.ModeVisual, true
	}
	return mode, mode.Valid()
}

// Paths lists every learning path with its levels
func (h *APIHandler) Paths(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.practice.Catalog().Paths())
}

type learningPathRequest struct {
	Name string `json:"name"`
}

// GetLearningPath returns the selected path
func (h *APIHandler) GetLearningPath(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, learningPathRequest{Name: h.practice.Store().LearningPath()})
}

// SetLearningPath selects a path
func (h *APIHandler) SetLearningPath(w http.ResponseWriter, r *http.Request) {
	var req learningPathRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if err := h.practice.Store().SetLearningPath(r.Context(), req.Name); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

type stageView struct {
	models.StageConfig
	Progress progress.StageProgress `json:"progress"`
}

type levelView struct {
	models.LevelConfig
	Stages   []stageView         `json:"stages"`
	Progress models.UserProgress `json:"progress"`
}

// Level returns a level with its stages and progress
func (h *APIHandler) Level(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidLevelID, "", nil)
		return
	}
	level, found := h.practice.Catalog().Level(id)
	if !found {
		respondWithError(w, h.log, http.StatusNotFound, ErrNotFound, "", nil)
		return
	}

	store := h.practice.Store()
	view := levelView{LevelConfig: level, Progress: store.LevelProgress(id)}
	for i, stage := range level.Stages {
		p, err := store.GetStageProgress(id, i)
		if err != nil {
			h.respondWithServiceError(w, err)
			return
		}
		view.Stages = append(view.Stages, stageView{StageConfig: stage, Progress: p})
	}
	respondJSON(w, http.StatusOK, view)
}

type problemView struct {
	Kind    models.ProblemKind `json:"kind"`
	Problem models.Problem     `json:"problem"`
	Spoken  string             `json:"spoken"`
}

func viewOf(p models.Problem) problemView {
	return problemView{Kind: p.Kind(), Problem: p, Spoken: generator.Spoken(p)}
}

// Problem returns the problem at an index of a level
func (h *APIHandler) Problem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidLevelID, "", nil)
		return
	}
	index, ok := pathInt(r, "index")
	if !ok {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidIndex, "", nil)
		return
	}

	p, err := h.practice.Problem(id, index)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewOf(p))
}

// NextProblem returns the next problem to practice in a stage. With ?mode=
// only problems first solved in that mode count as done.
func (h *APIHandler) NextProblem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidLevelID, "", nil)
		return
	}
	stage, ok := pathInt(r, "stage")
	if !ok {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidStage, "", nil)
		return
	}
	mode, ok := modeParam(r)
	if !ok {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidMode, "", nil)
		return
	}

	var p models.Problem
	var err error
	if r.URL.Query().Has("mode") {
		p, err = h.practice.StartExerciseInMode(r.Context(), id, stage, mode)
	} else {
		p, err = h.practice.StartExercise(r.Context(), id, stage)
	}
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewOf(p))
}

// StageProgress returns the solved count of a stage, for one mode when ?mode= is given
func (h *APIHandler) StageProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidLevelID, "", nil)
		return
	}
	stage, ok := pathInt(r, "stage")
	if !ok {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidStage, "", nil)
		return
	}

	store := h.practice.Store()
	var (
		p   progress.StageProgress
		err error
	)
	if r.URL.Query().Get("mode") == "" {
		p, err = store.GetStageProgress(id, stage)
	} else {
		mode, valid := modeParam(r)
		if !valid {
			respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidMode, "", nil)
			return
		}
		p, err = store.GetStageProgressForMode(id, stage, mode)
	}
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type answerRequest struct {
	LevelID   int                 `json:"levelId"`
	Index     int                 `json:"index"`
	Mode      models.PracticeMode `json:"mode"`
	Answer    string              `json:"answer"`
	ElapsedMs int                 `json:"elapsedMs"`
}

// SubmitAnswer judges an answer and records the attempt
func (h *APIHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	elapsed := time.Duration(req.ElapsedMs) * time.Millisecond
	if elapsed < 0 {
		elapsed = 0
	}
	result, err := h.practice.SubmitAnswer(r.Context(), req.LevelID, req.Index, req.Mode, req.Answer, elapsed)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Shuffle picks a new master seed
func (h *APIHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	seed := h.practice.Shuffle(r.Context())
	respondJSON(w, http.StatusOK, map[string]int64{"masterSeed": seed})
}

// Reset forgets all progress
func (h *APIHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.practice.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type streakView struct {
	DailyStreak  int `json:"dailyStreak"`
	AnswerStreak int `json:"answerStreak"`
	Coins        int `json:"coins"`
	TotalSolved  int `json:"totalSolved"`
}

// Streak returns the learner's streaks and totals
func (h *APIHandler) Streak(w http.ResponseWriter, r *http.Request) {
	store := h.practice.Store()
	respondJSON(w, http.StatusOK, streakView{
		DailyStreak:  store.GetCurrentStreak(),
		AnswerStreak: store.AnswerStreak(),
		Coins:        store.Coins(),
		TotalSolved:  store.TotalProblemsSolved(),
	})
}

// Logs returns the daily logs of ?month=YYYY-MM, the current month by default
func (h *APIHandler) Logs(w http.ResponseWriter, r *http.Request) {
	month := h.now()
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := time.Parse("2006-01", v)
		if err != nil {
			respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidMonth, "", nil)
			return
		}
		month = parsed
	}

	logs := h.practice.Store().LogsForMonth(month.Year(), month.Month())
	if logs == nil {
		logs = []models.DailyLog{}
	}
	respondJSON(w, http.StatusOK, logs)
}

// ExportBackup streams a backup of all progress
func (h *APIHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="abacusisland-backup.json"`)
	if _, err := h.backups.Export(w); err != nil {
		h.log.Error("failed to export backup", "error", err)
	}
}

// ImportBackup restores an uploaded backup; ?replace=true drops current progress first
func (h *APIHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	replace := false
	if v := r.URL.Query().Get("replace"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidReplace, "", nil)
			return
		}
		replace = b
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBackupBytes)

	backup, err := h.backups.Import(r.Context(), r.Body, replace)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondWithError(w, h.log, http.StatusRequestEntityTooLarge, ErrBodyTooLarge, "", nil)
		case errors.Is(err, service.ErrInvalidBackup):
			respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		default:
			h.respondWithServiceError(w, err)
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"id": backup.ID, "version": backup.Version})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
