package constants

// Roles
const (
	ROLE_STAFF            = "STAFF"
	ROLE_RESTAURANT_ADMIN = "RESTAURANT_ADMIN"
	ROLE_RESTAURANT_OWNER = "RESTAURANT_OWNER"
)

// STAFF_ROLES can be handed out from the staff endpoints.
var STAFF_ROLES = []string{ROLE_STAFF, ROLE_RESTAURANT_ADMIN}

// Token types carried in the "type" claim
const (
	TOKEN_ACCESS  = "access"
	TOKEN_REFRESH = "refresh"
)

// Cookie names
const (
	COOKIE_ACCESS_TOKEN  = "access_token"
	COOKIE_REFRESH_TOKEN = "refresh_token"
	COOKIE_CART_SESSION  = "cart_session"
	HEADER_CART_SESSION  = "X-Cart-Session"
)

// Locals keys
const (
	LOCALS_USER    = "user"
	LOCALS_INPUT   = "input"
	LOCALS_INPUTID = "inputId"

	LOCALS_CURRENT_USER  = "currentUser"
	LOCALS_RESTAURANT_ID = "restaurantId"
	LOCALS_ORDER_CODE    = "orderCode"
)

// Response messages
const (
	ERROR_INTERNAL_ERROR       = "Internal server error"
	ERROR_PARSE_DATA_TO_LOCALS = "Could not read validated input"
	INVALID_BODY               = "Invalid request body"
	DATA_INPUT_IS_NOT_NUMBER   = "Path parameter must be a positive number"
	MISSING_LOGIN_INPUT        = "Email and password are required"
	INVALID_CREDENTIALS        = "Invalid email or password"
	ACCOUNT_NOT_ACTIVE         = "Account is disabled"
	TWO_FACTOR_REQUIRED        = "Two-factor code required"
	INVALID_TWO_FACTOR         = "Invalid two-factor code"
	INVALID_REFRESH_TOKEN      = "Invalid or expired refresh token"
	INVALID_RESET_TOKEN        = "Reset token is invalid or expired"
	MISSING_TOKEN              = "Missing token"
	INVALID_TOKEN              = "Invalid token"
	NOT_PERMISSION             = "You do not have permission for this restaurant"
	CAN_NOT_HASH_PASSWORD      = "Could not hash password"
	VALIDATION_FAILED          = "Validation failed"
	CANNOT_MANAGE_ROLE         = "Your role cannot manage this account"
)
