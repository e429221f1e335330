package dto

// RegisterRequest defines the data needed to open a new account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required,mobile"`
}

// LoginRequest defines the credentials for a login attempt.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed access token on successful login.
type LoginResponse struct {
	Token string `json:"token"`
}
