package domain

// AdminLogin represents dashboard login credentials
type AdminLogin struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// AdminToken is the bearer token issued to the dashboard
type AdminToken struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}
