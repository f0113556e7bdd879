package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrNotPDF             = errors.New("file must be a PDF")
	ErrFileTooLarge       = errors.New("file exceeds 15MB")
	ErrUploadFailed       = errors.New("file upload to storage failed")
	ErrImportNotReady     = errors.New("import has not completed yet")
	ErrImportTerminal     = errors.New("import already reached a terminal status")
	ErrInvalidTransition  = errors.New("invalid import status transition")
	ErrModelReplyInvalid  = errors.New("could not interpret AI response")
)
