package remote

import (
	"context"
	"errors"
	"strings"

	"github.com/loganintech/go-reddit/v2/reddit"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

// classify wraps a client error with its retry kind. nil passes through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	return &domain.RemoteError{Kind: kindOf(err), Err: err}
}

func kindOf(err error) domain.ErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Cancellation is not retryable.
		return domain.KindPermanent
	}

	var rle *reddit.RateLimitError
	if errors.As(err, &rle) {
		return domain.KindRateLimited
	}

	var er *reddit.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		switch code := er.Response.StatusCode; {
		case code == 429:
			return domain.KindRateLimited
		case code >= 500:
			return domain.KindTransient
		default:
			// Includes the 400 Reddit returns for vote changes on
			// archived content.
			return domain.KindPermanent
		}
	}

	// Reddit also reports rate limiting as an in-body API error.
	if strings.Contains(err.Error(), "RATELIMIT") {
		return domain.KindRateLimited
	}

	// Network faults, timeouts, anything unrecognized.
	return domain.KindTransient
}
