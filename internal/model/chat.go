package model

// ChatQueryRequest is a citizen question for the FAQ chatbot.
type ChatQueryRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}

type ChatQueryResponse struct {
	Answer  string `json:"answer"`
	Matched bool   `json:"matched"`
}
