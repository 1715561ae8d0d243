package model

import "time"

// Device: серверная модель устройства в каталоге инвентаря.
type Device struct {
	// ID задаётся клиентом при создании, автоинкремента нет.
	ID int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`

	DeviceName   *string `json:"deviceName"`
	Description  *string `json:"description"`
	SerialNumber *string `json:"serialNumber"`
	Manufacturer *string `json:"manufacturer"`

	// PhotoPath относительная ссылка на файл фото, например /uploads/photo-1700000000000000000.jpg
	PhotoPath *string `json:"photoPath"`

	// Username: текущий держатель устройства. nil означает, что устройство на складе.
	Username *string `gorm:"index" json:"username"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Available сообщает, свободно ли устройство.
func (d *Device) Available() bool {
	return d.Username == nil
}
