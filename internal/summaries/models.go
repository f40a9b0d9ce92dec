package summaries

import (
	"time"

	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/google/uuid"
)

type GenerateRequest struct {
	ProfileID uuid.UUID               `json:"profile_id"`
	Date      string                  `json:"date,omitempty"`
	Current   *insights.FeatureSample `json:"current,omitempty"`
	Routine   *insights.Routine       `json:"routine,omitempty"`
}

type SummaryDTO struct {
	ID        uuid.UUID              `json:"id"`
	ProfileID uuid.UUID              `json:"profile_id"`
	Date      string                 `json:"date"`
	CreatedAt time.Time              `json:"created_at"`
	Summary   insights.SummaryResult `json:"summary"`
}

type ListSummariesResponse struct {
	Summaries []SummaryDTO `json:"summaries"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
