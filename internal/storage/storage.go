package storage

import "errors"

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrUsernameTaken      = errors.New("username exists")
	ErrEmailTaken         = errors.New("email exists")
	ErrCredentialNotFound = errors.New("credential not found")

	ErrContactExists   = errors.New("contact edge already exists")
	ErrRequestNotFound = errors.New("pending friend request not found")

	ErrChatNotFound  = errors.New("chat not found")
	ErrAlreadyMember = errors.New("already a chat member")
	ErrNotMember     = errors.New("not a chat member")
	ErrNotOwner      = errors.New("not the chat owner")

	ErrDuplicateLocation = errors.New("duplicate location")
	ErrLocationNotFound  = errors.New("location not found")
)
