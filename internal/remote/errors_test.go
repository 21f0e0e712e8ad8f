package remote

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

func respErr(code int) error {
	return &reddit.ErrorResponse{Response: &http.Response{StatusCode: code}}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"429 is rate limited", respErr(http.StatusTooManyRequests), domain.KindRateLimited},
		{"500 is transient", respErr(http.StatusInternalServerError), domain.KindTransient},
		{"503 is transient", respErr(http.StatusServiceUnavailable), domain.KindTransient},
		{"404 is permanent", respErr(http.StatusNotFound), domain.KindPermanent},
		{"403 is permanent", respErr(http.StatusForbidden), domain.KindPermanent},
		{"400 archived vote is permanent", respErr(http.StatusBadRequest), domain.KindPermanent},
		{"in-body RATELIMIT is rate limited", errors.New("field ratelimit caused RATELIMIT error"), domain.KindRateLimited},
		{"plain network error is transient", errors.New("dial tcp: i/o timeout"), domain.KindTransient},
		{"cancellation is permanent", context.Canceled, domain.KindPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := classify(tt.err)
			var re *domain.RemoteError
			require.ErrorAs(t, wrapped, &re)
			assert.Equal(t, tt.want, re.Kind)
			assert.ErrorIs(t, wrapped, tt.err, "original error stays reachable")
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify(nil))
}

func TestKindOfUnclassifiedDefaultsToTransient(t *testing.T) {
	assert.Equal(t, domain.KindTransient, domain.KindOf(errors.New("mystery")))
}
