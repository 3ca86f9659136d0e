package client

// Classify maps a status code onto the call outcome: nil for success,
// otherwise a [NetworkError] with StatusCode set.
//
// The bands are fixed for compatibility with existing callers: 400 and
// the 3xx range fall through to RequestError, and 500 is a BadRequest.
func Classify(statusCode int) error {
	switch {
	case statusCode >= 200 && statusCode <= 299:
		return nil
	case statusCode >= 401 && statusCode <= 500:
		return &NetworkError{Kind: KindBadRequest, StatusCode: statusCode}
	case statusCode >= 501 && statusCode <= 599:
		return &NetworkError{Kind: KindServerError, StatusCode: statusCode}
	default:
		return &NetworkError{Kind: KindRequestError, StatusCode: statusCode}
	}
}
