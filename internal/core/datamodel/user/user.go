package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;column:user_id"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Phone        *string   `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;default:user"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
