package models

type User struct {
	ID           int64  `json:"id"`
	UserName     string `json:"user_name"`
	EmployeeID   string `json:"employee_id"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// LoginRequest accepts either user_name or employee_id as the identifier.
type LoginRequest struct {
	UserName   string `json:"user_name"`
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

// Identifier returns whichever login name was supplied.
func (r LoginRequest) Identifier() string {
	if r.UserName != "" {
		return r.UserName
	}
	return r.EmployeeID
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UserInfo is the public profile returned by GET /user/{employeeId}.
type UserInfo struct {
	UserName   string `json:"user_name"`
	EmployeeID string `json:"employee_id"`
	UserAccess string `json:"user_access"`
}
