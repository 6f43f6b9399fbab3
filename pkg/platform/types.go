package platform

import "time"

// Credentials is the identity-issuing request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the identity-issuing endpoint response
type TokenPair struct {
	Token                  string    `json:"token"`
	RefreshToken           string    `json:"refreshToken"`
	TokenExpiryTime        time.Time `json:"tokenExpiryTime"`
	RefreshTokenExpiryTime time.Time `json:"refreshTokenExpiryTime"`
}

// Identity is the identity-resolution endpoint response
type Identity struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"isActive"`
}

// ListFilter is the common list query shape of the platform API
type ListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// Page is a paginated platform API result
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// errorBody is the error envelope the platform API returns on failures
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
