package model

type CreateDraftDTO struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
