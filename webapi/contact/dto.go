package contact

type ContactInput struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Message string `form:"message" validate:"required,max=5000"`
}
