package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"curator/internal/queue"
	id "curator/pkg/domain"
	dErrors "curator/pkg/domain-errors"
)

type enqueueRequest struct {
	ContentType string `json:"content_type"`
	ContentID   int64  `json:"content_id"`
}

func parseEnqueueRequest(r *http.Request) (id.ContentType, id.ContentID, error) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", 0, dErrors.New(dErrors.CodeInvalidInput, "malformed request body")
	}
	contentType, err := id.ParseContentType(req.ContentType)
	if err != nil {
		return "", 0, err
	}
	if req.ContentID <= 0 {
		return "", 0, dErrors.New(dErrors.CodeInvalidInput, "content_id must be a positive integer")
	}
	return contentType, id.ContentID(req.ContentID), nil
}

type decisionRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

func parseDecisionRequest(r *http.Request) (id.Action, string, error) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", dErrors.New(dErrors.CodeInvalidInput, "malformed request body")
	}
	action, err := id.ParseAction(req.Action)
	if err != nil {
		return "", "", err
	}
	return action, req.Notes, nil
}

// parseListQuery reads the queue listing filter from query parameters.
// Unknown statuses and types are rejected rather than silently ignored.
func parseListQuery(r *http.Request) (queue.ListFilter, int, int, error) {
	q := r.URL.Query()
	var filter queue.ListFilter

	if status := q.Get("status"); status != "" {
		filter.Status = queue.Status(status)
		if !filter.Status.IsValid() {
			return filter, 0, 0, dErrors.New(dErrors.CodeInvalidInput, "invalid status filter: "+status)
		}
	}
	if contentType := q.Get("content_type"); contentType != "" {
		parsed, err := id.ParseContentType(contentType)
		if err != nil {
			return filter, 0, 0, err
		}
		filter.ContentType = parsed
	}
	if moderator := q.Get("moderator_id"); moderator != "" {
		parsed, err := id.ParseUserID(moderator)
		if err != nil {
			return filter, 0, 0, err
		}
		filter.ModeratorID = &parsed
	}

	limit := queue.DefaultListLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			return filter, 0, 0, dErrors.New(dErrors.CodeInvalidInput, "limit must be between 1 and 100")
		}
		limit = n
	}
	offset := 0
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, 0, 0, dErrors.New(dErrors.CodeInvalidInput, "offset must be non-negative")
		}
		offset = n
	}
	return filter, limit, offset, nil
}
