package service

import "errors"

var (
	ErrContentEmpty       = errors.New("tweet content is required")
	ErrContentTooLong     = errors.New("tweet content exceeds 280 characters")
	ErrMissingCredentials = errors.New("all Twitter API keys (API key, API secret, Access token, Access secret) are required")
	ErrScheduleInPast     = errors.New("scheduled time must be in the future")
	ErrInvalidSchedule    = errors.New("scheduled time must be an RFC 3339 timestamp")
	ErrNotFound           = errors.New("record not found")
	ErrUnsupportedMedia   = errors.New("only png, jpeg, gif and webp images are supported")
	ErrMediaTooLarge      = errors.New("image exceeds the 5 MB upload limit")
	ErrNoProvider         = errors.New("AI generation disabled. Add Perplexity, Gemini, or OpenAI API key to enable this feature")
	ErrEmptyPrompt        = errors.New("prompt is required")
	ErrInvalidOTP         = errors.New("invalid OTP or email")
	ErrOTPExpired         = errors.New("OTP expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 6 characters long")
	ErrStorageDisabled    = errors.New("image storage is not configured")
	ErrInvalidMediaURL    = errors.New("image URL must be an absolute http or https URL")
)
