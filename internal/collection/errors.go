package collection

import "errors"

var (
	ErrNotOwner        = errors.New("not token owner")
	ErrUnauthorized    = errors.New("caller is not the owner")
	ErrTokenNotFound   = errors.New("token not found")
	ErrInvalidRoyalty  = errors.New("royalty fee exceeds 10000 basis points")
	ErrApprovalToOwner = errors.New("approval to current owner")
	ErrEmptyName       = errors.New("collection name is required")
	ErrEmptySymbol     = errors.New("collection symbol is required")
)
