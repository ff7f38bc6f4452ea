package domain

import "time"

type User struct {
	ID          int64     `json:"id"`
	TgID        int64     `json:"tg_id"`
	FIO         string    `json:"fio,omitempty"`
	Birthdate   string    `json:"birthdate,omitempty"` // ISO YYYY-MM-DD
	Lang        string    `json:"lang"`
	PushEnabled bool      `json:"push_enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasProfileData indica si el usuario ya entregó los datos mínimos para
// calcular su perfil numerológico.
func (u User) HasProfileData() bool {
	return u.FIO != "" && u.Birthdate != ""
}
