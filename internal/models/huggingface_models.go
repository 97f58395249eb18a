package models

type InferenceRequest struct {
	Inputs string `json:"inputs"`
}

type (
	InferenceResponse []InferenceLabel
	InferenceLabel    struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
)
