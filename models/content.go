package models

import "time"

type BlogPost struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	ImageFilename string    `json:"image_filename" gorm:"size:255"`
	AuthorID      uint      `json:"author_id" gorm:"not null;index"`
	Author        User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Project is a showcase entry of completed installations.
type Project struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	ImageFilename string    `json:"image_filename" gorm:"size:255;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}
