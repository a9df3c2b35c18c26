package middleware

import "errors"

var (
	errMissingToken = errors.New("missing or invalid token")
	errNoActor      = errors.New("token does not name a user")
	errNotOwner     = errors.New("notice belongs to another user")
)
