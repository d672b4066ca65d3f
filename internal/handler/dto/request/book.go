package request

type CreateBookRequest struct {
	Title           string  `json:"title" binding:"required,max=200"`
	Author          string  `json:"author" binding:"required"`
	ISBN            string  `json:"isbn" binding:"required"`
	PublicationYear *int32  `json:"publication_year"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
}

type UpdateBookRequest struct {
	Title           string  `json:"title" binding:"required,max=200"`
	Author          string  `json:"author" binding:"required"`
	ISBN            string  `json:"isbn" binding:"required"`
	PublicationYear *int32  `json:"publication_year"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
}

type ListBooksQuery struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PerPage  int    `form:"per_page,default=10" binding:"omitempty,min=1,max=100"`
	Query    string `form:"q"`
	Category string `form:"category"`
}
