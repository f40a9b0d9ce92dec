package analytics

import (
	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/google/uuid"
)

// Query: окно анализа. To по умолчанию сегодня (UTC), окно включает обе границы.
type Query struct {
	ProfileID uuid.UUID
	Days      int
	To        string
}

// Window: фактический период, по которому строился отчёт
type Window struct {
	ProfileID uuid.UUID `json:"profile_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Days      int       `json:"days"`
}

type StatisticsResponse struct {
	Window
	insights.ProfileStatistics
}

type EffectivenessResponse struct {
	Window
	insights.RoutineAnalysis
}

type CorrelationsResponse struct {
	Window
	insights.CorrelationReport
}

type WeeklyResponse struct {
	Window
	insights.WeeklyAnalysis
}

// ErrorResponse: стандартный формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
