package models

import "time"

type Designation struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultDesignations seed an empty designation table.
var DefaultDesignations = []string{
	"intern",
	"Software Consultant",
	"Senior Software Consultant",
	"AVP",
	"VP",
}
