package request

type RegisterRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=2"`
	Username    string `json:"username" binding:"required,min=3,username"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
