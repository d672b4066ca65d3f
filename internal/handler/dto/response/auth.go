package response

import "library-lending/internal/usecase/queries"

type LoginResponse struct {
	Token string                      `json:"token"`
	User  *queries.AuthorizedUserView `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
