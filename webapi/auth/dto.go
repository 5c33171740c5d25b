package auth

// LoginInput is the login form. Username accepts a username or an email.
type LoginInput struct {
	Username string `form:"username" validate:"required,max=254"`
	Password string `form:"password" validate:"required,max=256"`
}
