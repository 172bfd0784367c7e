package entity

import "errors"

// Domain errors for the word library and review session.
var (
	ErrWordNotFound    = errors.New("word not found")
	ErrDuplicateWord   = errors.New("word already exists")
	ErrInvalidWordText = errors.New("invalid word text")
	ErrInvalidWordID   = errors.New("invalid word ID")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrNoCurrentWord   = errors.New("no current word")
	ErrEmptyPatch      = errors.New("empty update patch")
)
