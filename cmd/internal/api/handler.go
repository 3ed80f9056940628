package api

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
	"github.com/arathikrishnaam/dueDash/cmd/internal/auth"
	"github.com/arathikrishnaam/dueDash/cmd/internal/task"
)

// Handler wires HTTP endpoints to the auth and task services.
type Handler struct {
	log   *slog.Logger
	cfg   Config
	auth  *auth.Service
	tasks *task.Service
}

// NewHandler constructs a Handler.
func NewHandler(log *slog.Logger, cfg Config, authSvc *auth.Service, tasks *task.Service) (*Handler, error) {
	if authSvc == nil {
		return nil, errors.New("api: nil auth service")
	}
	if tasks == nil {
		return nil, errors.New("api: nil task service")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{log: log, cfg: cfg.normalized(), auth: authSvc, tasks: tasks}, nil
}

// Register wires the API routes onto r and installs JSON 404/405 handlers.
func (h *Handler) Register(r *mux.Router) {
	if h == nil || r == nil {
		return
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Not Found", "")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed", "")
	})

	r.HandleFunc("/", h.handleWelcome).Methods(http.MethodGet)
	r.HandleFunc("/signup", h.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)

	todos := r.PathPrefix("/todos").Subrouter()
	todos.Use(mux.MiddlewareFunc(h.auth.RequireUser(h.writeAppError)))
	todos.HandleFunc("", h.handleListTasks).Methods(http.MethodGet)
	todos.HandleFunc("", h.handleCreateTask).Methods(http.MethodPost)
	todos.HandleFunc("/summary", h.handleSummary).Methods(http.MethodGet)
	todos.HandleFunc("/{id:[0-9]+}", h.handleGetTask).Methods(http.MethodGet)
	todos.HandleFunc("/{id:[0-9]+}", h.handleUpdateTask).Methods(http.MethodPut, http.MethodPatch)
	todos.HandleFunc("/{id:[0-9]+}", h.handleDeleteTask).Methods(http.MethodDelete)
	todos.HandleFunc("/{id:[0-9]+}/complete", h.handleCompleteTask).Methods(http.MethodPatch)
}

func (h *Handler) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Welcome to dueDash"})
}

// ---- auth ----

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		h.writeAppError(w, r, bodyError(err))
		return
	}

	u, err := h.auth.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSignupResponse(u))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := h.readCredentials(w, r)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	issued, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: issued.Token,
		TokenType:   "bearer",
		ExpiresAt:   issued.ExpiresAt,
	})
}

// readCredentials accepts a JSON body or an urlencoded/multipart form, the
// latter being what OAuth2 password-flow clients send.
func (h *Handler) readCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
			return req, bodyError(err)
		}
	} else {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
		}
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(h.cfg.MaxBodyBytes); err != nil {
				return req, apperr.Invalid("body", "malformed form body")
			}
		} else if err := r.ParseForm(); err != nil {
			return req, apperr.Invalid("body", "malformed form body")
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	if strings.TrimSpace(req.Username) == "" {
		return req, apperr.Invalid("username", "is required")
	}
	if req.Password == "" {
		return req, apperr.Invalid("password", "is required")
	}
	return req, nil
}

// ---- todos ----

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())
	category, err := task.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	ts, err := h.tasks.List(r.Context(), u.ID, category)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	if category != task.CategoryAll {
		writeJSON(w, http.StatusOK, bucket(ts, category))
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponses(ts, h.tasks.Now()))
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())
	var req createTaskRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		h.writeAppError(w, r, bodyError(err))
		return
	}

	t, err := h.tasks.Create(r.Context(), u.ID, req.newTask())
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.taskJSON(t))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())
	s, err := h.tasks.Summary(r.Context(), u.ID)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Completed: bucket(s.Completed, task.CategoryCompleted),
		Pending:   bucket(s.Pending, task.CategoryPending),
		Overdue:   bucket(s.Overdue, task.CategoryOverdue),
	})
}

// bucket renders tasks with the category they were grouped under.
func bucket(ts []task.Task, c task.Category) []taskResponse {
	out := make([]taskResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTaskResponse(t, c))
	}
	return out
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())
	t, err := h.tasks.Get(r.Context(), u.ID, taskID(r))
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.taskJSON(t))
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())
	var req updateTaskRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		h.writeAppError(w, r, bodyError(err))
		return
	}
	p, err := req.patch()
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	t, err := h.tasks.Update(r.Context(), u.ID, taskID(r), p)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.taskJSON(t))
}

func (h *Handler) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())
	t, err := h.tasks.Complete(r.Context(), u.ID, taskID(r))
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.taskJSON(t))
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFrom(r.Context())
	if err := h.tasks.Delete(r.Context(), u.ID, taskID(r)); err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Todo deleted"})
}

func (h *Handler) taskJSON(t task.Task) taskResponse {
	return toTaskResponse(t, task.Categorize(t, h.tasks.Now()))
}

// taskID reads the {id} route variable. Values that do not fit an int64 come
// back as 0, which the task service reports as not found.
func taskID(r *http.Request) int64 {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0
	}
	return id
}
