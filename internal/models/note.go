package models

import "github.com/hray3182/melgar/internal/dates"

const DefaultNoteType = "general"

type Note struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Body        string     `gorm:"column:note;not null" json:"note"`
	Type        string     `gorm:"not null;default:general" json:"type"`
	CreatedDate dates.Date `gorm:"not null;index" json:"created_date"`
}

func (Note) TableName() string {
	return "notes"
}

// Goal is a long-running objective; the newest uncompleted one is current.
type Goal struct {
	ID             int64       `gorm:"primaryKey" json:"id"`
	Description    string      `gorm:"not null" json:"description"`
	CreatedDate    dates.Date  `gorm:"not null" json:"created_date"`
	TargetDate     *dates.Date `json:"target_date"`
	Completed      bool        `gorm:"not null;default:false" json:"completed"`
	CompletionDate *dates.Date `gorm:"index" json:"completion_date"`
}

func (Goal) TableName() string {
	return "goals"
}
