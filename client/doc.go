// Package client provides a generic typed HTTP client built on [net/http].
//
// # Describing Endpoints
//
// An endpoint is any type implementing [Target]. A small enum whose
// methods switch over its values keeps every variant of an API in one
// place:
//
//	type itemsAPI int
//
//	const (
//		allItems itemsAPI = iota
//		createItem
//	)
//
//	func (e itemsAPI) Path() string {
//		switch e {
//		case allItems:
//			return "/items/all"
//		default:
//			return "/items/new"
//		}
//	}
//
// # Building a Client
//
// Use [Build] with functional options:
//
//	c, err := client.Build[itemsAPI](
//		client.WithTimeout(10 * time.Second),
//		client.WithInterceptor(auth),
//	)
//
// Headers and query parameters that apply to every call are set with
// the chainable [Client.SetCustomHeaders] and
// [Client.SetAdditionalParameters]. They are appended after the
// endpoint's own values, never merged into them.
//
// # Making Requests
//
// [Do] and [DoList] block until the body is decoded into a T or []T.
// [Request] and [RequestList] return immediately and deliver the result
// to a completion func on another goroutine:
//
//	items, err := client.DoList[Item](ctx, c, allItems)
//
//	client.Request(ctx, c, createItem, func(it *Item, err error) { ... })
//
// [Client.Cancel] aborts the most recently dispatched call.
//
// # Errors
//
// Every failure is a [*NetworkError] whose Kind tells which stage
// failed. Status codes are classified by [Classify]. Use errors.Is with
// the Err* sentinels, or errors.As to reach a decode error's cause.
package client
