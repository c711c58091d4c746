package domain

import "errors"

var (
	ErrMissingCredential   = errors.New("storage credential is required in production mode")
	ErrUploadFailed        = errors.New("upload failed")
	ErrMintFailed          = errors.New("mint transaction failed")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrInvalidReference    = errors.New("invalid content reference")
	ErrNotFound            = errors.New("not found")
)
