package dto

// ChatbotRequest entrada del chatbot. UserID se ignora: la identidad sale del token.
type ChatbotRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// ChatbotResponse {reply}.
type ChatbotResponse struct {
	Reply string `json:"reply"`
}
