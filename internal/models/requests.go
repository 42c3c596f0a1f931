package models

// SignupRequest is the payload for account creation. Email is required,
// phone is optional and normalized to digits before any uniqueness check.
type SignupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required"`
	Consent  bool   `json:"consent"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type PhoneLoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EmailOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type EmailOTPVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type OnboardingRequest struct {
	DisplayName string `json:"display_name"`
	AvatarPath  string `json:"avatar_path"`
}

// SettingsRequest updates profile fields. Email and phone are applied as
// given (no uniqueness check on edits); display name and password only when
// non-empty.
type SettingsRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
}

type AskRequest struct {
	Question string `json:"question"`
	Mode     string `json:"mode"`
}

type FlashcardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back" validate:"required"`
}

type PlannerRequest struct {
	Title string `json:"title" validate:"required"`
	Date  string `json:"date"`
}

// ProfileView is the session user's profile as returned by GET /me and the
// settings view.
type ProfileView struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	AvatarPath  string `json:"avatar_path"`
	Admin       bool   `json:"admin"`
	FirstLogin  bool   `json:"first_login"`
}
