package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"curator/internal/queue"
	dErrors "curator/pkg/domain-errors"
)

type queueItemResponse struct {
	ID          string    `json:"id"`
	ContentType string    `json:"content_type"`
	ContentID   int64     `json:"content_id"`
	Status      string    `json:"status"`
	ModeratorID *string   `json:"moderator_id,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toQueueItemResponse(item *queue.Item) queueItemResponse {
	resp := queueItemResponse{
		ID:          item.ID.String(),
		ContentType: item.ContentType.String(),
		ContentID:   int64(item.ContentID),
		Status:      item.Status.String(),
		Notes:       item.Notes,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.ModeratorID != nil {
		mid := item.ModeratorID.String()
		resp.ModeratorID = &mid
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

var codeToStatus = map[dErrors.Code]int{
	dErrors.CodeInvalidInput: http.StatusBadRequest,
	dErrors.CodeUnauthorized: http.StatusUnauthorized,
	dErrors.CodeForbidden:    http.StatusForbidden,
	dErrors.CodeNotFound:     http.StatusNotFound,
	dErrors.CodeConflict:     http.StatusConflict,
	dErrors.CodeTimeout:      http.StatusGatewayTimeout,
}

func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := codeToStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"error": string(code)})
}
