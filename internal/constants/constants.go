package constants

import "time"

// for api auth
type ContextKey string

const (
	AuthorizationPayloadKey ContextKey = "authorization_payload"
	RequestIDKey            ContextKey = "request_id"
)

const (
	SessionCookieName = "session_token"
	FlashCookieName   = "flash"
)

type TokenDurationHour int

const (
	SessionTokenDuration TokenDurationHour = 24
)

func (h TokenDurationHour) Duration() time.Duration {
	return time.Duration(h) * time.Hour
}

type ENV string

const (
	Debug ENV = "debug"
	Dev   ENV = "development"
	Stag  ENV = "staging"
	Prod  ENV = "production"
)

type DbDriver string

const (
	Postgres DbDriver = "postgres"
	Sqlite   DbDriver = "sqlite"
)

// 付款QR固定欄位
const (
	PayeeName       = "Restaurant"
	UPIMerchantCode = "0000"
	UPITerminalID   = "00000000"
	UPIReference    = "000000"
	UPINote         = "Order"
	UPICurrency     = "INR"
	CurrencySymbol  = "₹"
)

// app_settings keys
const (
	SettingKeyUPIID = "upi_id"
)

// outbox message kinds
const (
	OutboxKindOrderConfirmation = "order_confirmation"
)

type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashInfo    FlashCategory = "info"
	FlashWarning FlashCategory = "warning"
	FlashDanger  FlashCategory = "danger"
)
