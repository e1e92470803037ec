package redis

import "errors"

var ErrCorruptEntry = errors.New("corrupt journal entry")
