package dto

// ErrorResponse sobre de error HTTP. Error replica Message para clientes antiguos.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewErrorResponse construye el sobre con success=false.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, Error: message}
}

// MessageResponse respuesta mínima {success, message}.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK atajo para MessageResponse exitosa.
func OK(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}
