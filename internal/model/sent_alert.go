package model

import "time"

// SentAlert records that a push for (UserID, Disease) was dispatched.
// Rows are only inserted, never updated.
type SentAlert struct {
	ID      int64     `db:"id" json:"id"`
	UserID  int64     `db:"user_id" json:"user_id"`
	Disease string    `db:"disease" json:"disease"`
	SentAt  time.Time `db:"sent_at" json:"sent_at"`
}
