package model

import (
	"time"

	"github.com/google/uuid"
)

// OneTimePasswordModel mirrors the 'one_time_passwords' table. Rows go with their account.
type OneTimePasswordModel struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Account   AccountModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	Code      string       `gorm:"type:varchar(6);not null;index:idx_otp_code_created,priority:1"`
	ExpiresAt time.Time    `gorm:"not null;index"`
	IsUsed    bool         `gorm:"not null;default:false"`
	CreatedAt time.Time    `gorm:"index:idx_otp_code_created,priority:2,sort:desc"`
}

// TableName explicitly sets the table name for GORM.
func (OneTimePasswordModel) TableName() string {
	return "one_time_passwords"
}

// RefreshTokenModel mirrors the 'refresh_tokens' table.
type RefreshTokenModel struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Account   AccountModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	TokenHash string       `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time    `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&AccountModel{},
		&IndividualModel{},
		&ServiceProviderModel{},
		&OneTimePasswordModel{},
		&RefreshTokenModel{},
	}
}
