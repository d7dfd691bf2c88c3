package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrNoActiveFlow       = errors.New("no active learning flow for user")
	ErrInvalidTransition  = errors.New("action not allowed in current flow state")
	ErrFlowCompleted      = errors.New("learning flow already completed")
	ErrIncompleteAnswers  = errors.New("all multiple-choice questions must be answered")
	ErrDrillNotFound      = errors.New("drill session not found or expired")
	ErrDrillSubmitted     = errors.New("drill already submitted")
	ErrProfileNotFound    = errors.New("career profile not found")
	ErrSprintTaskNotFound = errors.New("sprint task not found")
	ErrResumeUnreadable   = errors.New("could not extract text from resume")
)
