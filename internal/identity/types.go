package identity

import "time"

// User is the profile projection served to clients. The password hash never
// leaves this package.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type RegisterParams struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type SignInParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileParams struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	AvatarFileID *string `json:"avatar_file_id,omitempty"`
}

// Session carries the minted token pair alongside the authenticated profile.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}
