package models

// User - пользователь из сервиса аккаунтов, здесь только читается
type User struct {
	UserID       string `json:"userId" db:"user_id"`
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName" db:"last_name"`
	UserName     string `json:"userName" db:"user_name"`
	Email        string `json:"email" db:"email"`
	CountryCode  string `json:"countryCode" db:"country_code"`
	MobileNumber string `json:"mobileNumber" db:"mobile_number"`
	IsAdmin      bool   `json:"-" db:"is_admin"`
}
