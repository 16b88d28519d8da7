package feed

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotOwner     = errors.New("not the owner of this post")
)
