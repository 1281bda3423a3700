package response

type SuccessResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors,omitempty"`
	Details any               `json:"details,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
