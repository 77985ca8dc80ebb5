package dto

import "github.com/qrave1/MeetPlanner/internal/domain/models"

type UserResponse struct {
	UserID       string `json:"userId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	CountryCode  string `json:"countryCode"`
	MobileNumber string `json:"mobileNumber"`
}

func NewUserResponseFromModel(u models.User) UserResponse {
	return UserResponse{
		UserID:       u.UserID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		UserName:     u.UserName,
		Email:        u.Email,
		CountryCode:  u.CountryCode,
		MobileNumber: u.MobileNumber,
	}
}

func NewUserResponses(users []models.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, NewUserResponseFromModel(u))
	}

	return resp
}
