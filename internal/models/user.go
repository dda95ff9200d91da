package models

// Роли пользователей платформы.
const (
	UserTypeClient     = "client"
	UserTypeTechnician = "technician"
	UserTypeAdmin      = "admin"
)

// User текущий пользователь, сохраняемый вместе с токеном.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
	IsStaff   bool   `json:"is_staff"`
}

// IsAdmin сообщает, может ли пользователь разбирать споры.
func (u *User) IsAdmin() bool {
	return u != nil && (u.UserType == UserTypeAdmin || u.IsStaff)
}

// UserRef краткая ссылка на участника заказа.
type UserRef struct {
	ID        int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName имя для отображения в интерфейсе и выгрузках.
func (u *UserRef) DisplayName() string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
