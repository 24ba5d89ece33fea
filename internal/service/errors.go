package service

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEnrollment = errors.New("user is already enrolled in this course")
	ErrPaymentRequired     = errors.New("course requires payment")
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")
	ErrMissingMetadata     = errors.New("payment intent is missing course or user metadata")
	ErrUnauthorizedAccess  = errors.New("user is not enrolled in this course")
	ErrMilestoneLocked     = errors.New("previous milestone must be completed first")
	ErrInvalidTransition   = errors.New("invalid enrollment status transition")
	ErrEnrollmentClosed    = errors.New("enrollment is no longer active")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
)
