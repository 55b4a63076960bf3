package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"curator/internal/capability"
	httpmetrics "curator/internal/platform/metrics"
	"curator/internal/platform/middleware"
	"curator/internal/queue"
	id "curator/pkg/domain"
	dErrors "curator/pkg/domain-errors"
	"curator/pkg/requestcontext"
)

// QueueService is the enqueue/list surface consumed by this handler.
type QueueService interface {
	Enqueue(ctx context.Context, contentType id.ContentType, contentID id.ContentID) (id.QueueID, error)
	List(ctx context.Context, filter queue.ListFilter, limit, offset int) ([]*queue.Item, error)
}

// Moderator is the verdict surface consumed by this handler.
type Moderator interface {
	Moderate(ctx context.Context, queueID id.QueueID, action id.Action, notes string) bool
}

// Authorizer answers capability queries for the transport layer.
type Authorizer interface {
	Can(ctx context.Context, capability string, userID id.UserID, object *capability.ObjectRef) bool
}

// Handler is the thin HTTP adapter over the moderation core. It translates
// requests to the four exposed calls and owns no business logic.
type Handler struct {
	logger    *slog.Logger
	queue     QueueService
	moderator Moderator
	authz     Authorizer
	validator middleware.TokenValidator
	metrics   *httpmetrics.Metrics
}

// New creates a new moderation Handler.
func New(
	queueSvc QueueService,
	moderator Moderator,
	authz Authorizer,
	validator middleware.TokenValidator,
	logger *slog.Logger,
	m *httpmetrics.Metrics,
) *Handler {
	return &Handler{
		logger:    logger,
		queue:     queueSvc,
		moderator: moderator,
		authz:     authz,
		validator: validator,
		metrics:   m,
	}
}

// Register registers the moderation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Metrics(h.metrics))
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.RequireAuth(h.validator, h.logger))
	router.Post("/moderation/queue", h.handleEnqueue)
	router.Get("/moderation/queue", h.handleList)
	router.Post("/moderation/queue/{queueID}/decision", h.handleDecision)
	router.Get("/capabilities/{capability}", h.handleCan)

	r.Mount("/", router)
}

func (h *Handler) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contentType, contentID, err := parseEnqueueRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	queueID, err := h.queue.Enqueue(ctx, contentType, contentID)
	if err != nil {
		h.logger.ErrorContext(ctx, "enqueue failed",
			"content_type", contentType.String(),
			"content_id", contentID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"queue_id": queueID.String()})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, limit, offset, err := parseListQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.queue.List(ctx, filter, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]queueItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toQueueItemResponse(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": resp})
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	queueID, err := id.ParseQueueID(chi.URLParam(r, "queueID"))
	if err != nil {
		writeError(w, err)
		return
	}
	action, notes, err := parseDecisionRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// The core collapses every refusal to false; the adapter reports it as a
	// conflict without guessing the reason.
	if !h.moderator.Moderate(ctx, queueID, action, notes) {
		writeJSON(w, http.StatusConflict, map[string]bool{"ok": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleCan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	capabilityName := chi.URLParam(r, "capability")
	if capabilityName == "" {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "capability name required"))
		return
	}

	var object *capability.ObjectRef
	q := r.URL.Query()
	if q.Get("object_type") != "" || q.Get("object_id") != "" {
		contentType, err := id.ParseContentType(q.Get("object_type"))
		if err != nil {
			writeError(w, err)
			return
		}
		contentID, err := id.ParseContentID(q.Get("object_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		object = &capability.ObjectRef{Type: contentType, ID: contentID}
	}

	allowed := h.authz.Can(ctx, capabilityName, requestcontext.UserID(ctx), object)
	writeJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
}
