package handler

// SuccessMessage is returned once both the identity and the profile exist.
const SuccessMessage = "Registration successful. Please check your email or phone for an OTP to verify your account."

type RegisterResponse struct {
	Message string `json:"message"`
}

func NewRegisterResponse() *RegisterResponse {
	return &RegisterResponse{Message: SuccessMessage}
}
