package samples

import (
	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/google/uuid"
)

// SyncSamplesRequest: запрос на синхронизацию замеров
type SyncSamplesRequest struct {
	ProfileID uuid.UUID                `json:"profile_id"`
	Samples   []insights.FeatureSample `json:"samples"`
}

// SyncSamplesResponse: ответ на синхронизацию
type SyncSamplesResponse struct {
	Status   string `json:"status"`
	Upserted int    `json:"upserted"`
}

// ListSamplesResponse: замеры за период
type ListSamplesResponse struct {
	ProfileID uuid.UUID                `json:"profile_id"`
	Samples   []insights.FeatureSample `json:"samples"`
}

// ErrorResponse: стандартный формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
