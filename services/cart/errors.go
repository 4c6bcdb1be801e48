package cart

import "errors"

var (
	// ErrNoUser is returned for anonymous callers. No cart is fetched or held for them.
	ErrNoUser = errors.New("cart: no authenticated user")

	// ErrRefetch wraps a failed read that followed a successful mutation.
	// The write reached the backend; only the refreshed view is missing.
	ErrRefetch = errors.New("cart: mutation applied but refetch failed")

	// ErrCacheMiss is returned by a CartCache that holds nothing for the user.
	ErrCacheMiss = errors.New("cart: cache miss")
)
