package model

import "time"

// User: учётная запись. Пароль хранится только в виде bcrypt-хеша и никогда не сериализуется.
type User struct {
	Username string `gorm:"primaryKey" json:"username"`
	Password string `gorm:"not null" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	// Devices выданные пользователю устройства. Внешний ключ devices.username -> users.username,
	// при удалении пользователя устройства возвращаются на склад.
	Devices []Device `gorm:"foreignKey:Username;references:Username;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}
