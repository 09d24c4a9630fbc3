package domain

import "errors"

var ErrNotFound = errors.New("submission_not_found")
