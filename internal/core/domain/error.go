package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrInvalidCredentials         = errors.New("invalid login or password")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Business errors.
	ErrUnknownStatus       = errors.New("unknown order status")
	ErrUnknownRole         = errors.New("unknown actor role")
	ErrInvalidTransition   = errors.New("status transition is not permitted for the actor")
	ErrRefundWindowExpired = errors.New("refund window has expired")
	ErrAlreadyPickedUp     = errors.New("order is already picked up")
	ErrInvalidAmount       = errors.New("amount must be a positive decimal")
	ErrEmptyOrder          = errors.New("order must contain at least one item")
)
