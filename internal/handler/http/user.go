package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// streamKeepalive is how often an idle team stream gets a ping event
const streamKeepalive = 30 * time.Second

type UserHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	ListTeam(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
	jwtService  jwt.Service
	hub         *sse.Hub
	keepalive   time.Duration
}

func NewUserHandler(userService user.UserService, jwtService jwt.Service, hub *sse.Hub) UserHandler {
	return &userHandlerImpl{
		userService: userService,
		jwtService:  jwtService,
		hub:         hub,
		keepalive:   streamKeepalive,
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// GetProfile implements UserHandler.
func (h *userHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userService.GetProfile(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

// UpdateProfile implements UserHandler.
func (h *userHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateProfileRequest

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		if values, ok := r.MultipartForm.Value["department"]; ok && len(values) > 0 {
			req.Department = &values[0]
		}
		if values, ok := r.MultipartForm.Value["phone"]; ok && len(values) > 0 {
			req.Phone = &values[0]
		}

		file, fileHeader, err := r.FormFile("photo")
		if err != nil && err != http.ErrMissingFile {
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		if file != nil {
			defer file.Close()
			req.File = file
			req.FileHeader = fileHeader
		}
	} else if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile updated successfully", profile)
}

// UpdateStatus implements UserHandler.
func (h *userHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	profile, err := h.userService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Status updated successfully", profile)
}

// ListTeam implements UserHandler.
func (h *userHandlerImpl) ListTeam(w http.ResponseWriter, r *http.Request) {
	var filter user.TeamFilter
	query := r.URL.Query()

	var errs validator.ValidationErrors
	if page := query.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a number"})
		}
		filter.Page = n
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a number"})
		}
		filter.Limit = n
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	if search := query.Get("search"); search != "" {
		filter.Search = &search
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	team, err := h.userService.ListTeam(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, team)
}

// GetEmployee implements UserHandler.
func (h *userHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.userService.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employee)
}

// Stream pushes team status changes as server-sent events. EventSource cannot
// send headers, so the short-lived stream token comes in the query string.
func (h *userHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	flusher.Flush()
	slog.Debug("team stream opened", "user_id", userID)

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("failed to encode stream event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			slog.Debug("team stream closed", "user_id", userID)
			return
		}
	}
}
