package common

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    string            `json:"code" example:"INVALID_ARGUMENT"`
	Message string            `json:"message" example:"invalid show_done value"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// SuccessResponse wraps every successful payload
type SuccessResponse struct {
	Code    int    `json:"code" example:"200"`
	Message string `json:"message" example:"success"`
	Data    any    `json:"data,omitempty"`
}

// HealthResponse is returned by the liveness and readiness checks
type HealthResponse struct {
	Status      string            `json:"status" example:"ok"`
	Environment string            `json:"environment,omitempty" example:"production"`
	Checks      map[string]string `json:"checks,omitempty"`
}
