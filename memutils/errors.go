package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// IndexOutOfRangeError is the error returned from CheckIndex if an index falls outside of its container
var IndexOutOfRangeError error = errors.New("index out of range")

// MismatchError is the error returned from CheckEqual if a value differs from the one required
var MismatchError error = errors.New("value does not match")
