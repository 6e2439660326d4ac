package sale

import "errors"

// ErrEmptyOrder indicates there is nothing to commit.
var ErrEmptyOrder = errors.New("order is empty")
