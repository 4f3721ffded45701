package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantCredential stores the Instagram access token and messaging account id
// for a tenant. Tokens are rotated by appending rows; the newest row wins.
type TenantCredential struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID     uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	AccessToken  string    `gorm:"column:access_token;not null"`
	IGAccountID  string    `gorm:"column:ig_account_id;not null"`
	TokenExpires *time.Time `gorm:"column:token_expires"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
