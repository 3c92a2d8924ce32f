package dto

import (
	"encoding/json"
	"time"

	"opsvault/internal/entity"
)

type AuditActor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuditLogResponse struct {
	ID          string          `json:"id"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	IPAddress   *string         `json:"ip_address,omitempty"`
	Actor       *AuditActor     `json:"actor,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func AuditLogResponseFromEntity(log *entity.AuditLog) AuditLogResponse {
	response := AuditLogResponse{
		ID:          log.ID.String(),
		Action:      string(log.Action),
		Description: log.Description,
		IPAddress:   log.IPAddress,
		CreatedAt:   log.CreatedAt,
	}
	if len(log.Metadata) > 0 {
		response.Metadata = json.RawMessage(log.Metadata)
	}
	if log.User != nil {
		response.Actor = &AuditActor{
			ID:    log.User.ID.String(),
			Name:  log.User.Name,
			Email: log.User.Email,
		}
	}
	return response
}

func AuditLogResponsesFromEntities(logs []entity.AuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, AuditLogResponseFromEntity(&logs[i]))
	}
	return responses
}
