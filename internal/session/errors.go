package session

import "errors"

var ErrFull = errors.New("session store is full")
