package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=6"`
	FullName    string `json:"full_name"    validate:"omitempty,max=120"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	AvatarURL   string `json:"avatar_url"   validate:"omitempty,url"`
	CNIC        string `json:"cnic"         validate:"omitempty,max=30"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resendConfirmationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type updateProfileRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	AvatarURL   *string `json:"avatar_url"`
	CNIC        *string `json:"cnic"`
}

// tokenResponse carries a freshly issued bearer token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func newTokenResponse(token string) tokenResponse {
	return tokenResponse{AccessToken: token, TokenType: "bearer"}
}

type messageResponse struct {
	Message string `json:"message"`
}
