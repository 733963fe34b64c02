package service

import "errors"

var (
	ErrNotFound            = errors.New("error not found")
	ErrAlreadyExists       = errors.New("error already exists")
	ErrInvalidInput        = errors.New("error invalid input")
	ErrInvalidPeriod       = errors.New("error invalid period")
	ErrInvalidCredentials  = errors.New("error invalid credentials")
	ErrInvalidCode         = errors.New("error invalid verification code")
	ErrVerificationExpired = errors.New("error verification code expired")
	ErrUnauthorized        = errors.New("error unauthorized")
	ErrExportUnavailable   = errors.New("error export storage is not configured")
)
