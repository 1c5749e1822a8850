package Models

import (
	"gorm.io/gorm"
)

// Permission levels: 1 = counter (worker), 3 = supervisor/admin
const (
	PermissionCounter    = 1
	PermissionSupervisor = 3
)

type User struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	Email      string `json:"email" gorm:"not null;uniqueIndex"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission" gorm:"default:1"`
}
