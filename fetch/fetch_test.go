package fetch_test

import (
	"context"
	stderrors "errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/e-comet/ghcollector/errors"
	"github.com/e-comet/ghcollector/fetch"
	mfetch "github.com/e-comet/ghcollector/internal/mocks/fetch"
	"github.com/e-comet/ghcollector/permit"
)

type payload struct {
	Name  string `json:"name"`
	Stars int    `json:"stargazers_count"`
}

func TestFetcherGet(t *testing.T) {
	errWanted := stderrors.New("wanted error")

	tests := []struct {
		name       string
		mock       func(m *mfetch.Transport)
		expPayload payload
		expErrIs   []error
		expUpErr   bool
	}{
		{
			name: "A successful call should decode the body.",
			mock: func(m *mfetch.Transport) {
				m.On("Active").Return(true)
				m.On("Fetch", mock.Anything, "/repos/a/b", url.Values(nil)).Once().Return([]byte(`{"name":"b","stargazers_count":42}`), nil)
			},
			expPayload: payload{Name: "b", Stars: 42},
		},
		{
			name: "A transport failure should be an upstream error.",
			mock: func(m *mfetch.Transport) {
				m.On("Active").Return(true)
				m.On("Fetch", mock.Anything, "/repos/a/b", url.Values(nil)).Once().Return(nil, errWanted)
			},
			expErrIs: []error{errors.ErrUpstreamFetch, errWanted},
			expUpErr: true,
		},
		{
			name: "A body that is not valid JSON should be an upstream error.",
			mock: func(m *mfetch.Transport) {
				m.On("Active").Return(true)
				m.On("Fetch", mock.Anything, "/repos/a/b", url.Values(nil)).Once().Return([]byte(`{"name":`), nil)
			},
			expErrIs: []error{errors.ErrUpstreamFetch},
			expUpErr: true,
		},
		{
			name: "A transport that is not active should fail without calling it.",
			mock: func(m *mfetch.Transport) {
				m.On("Active").Return(false)
			},
			expErrIs: []error{errors.ErrNotInitialized},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mt := &mfetch.Transport{}
			test.mock(mt)
			cc := permit.NewConcurrencyLimiter(permit.ConcurrencyConfig{Max: 1})

			f, err := fetch.New(fetch.Config{Transport: mt, Permit: cc})
			require.NoError(err)

			var got payload
			err = f.Get(context.TODO(), "/repos/a/b", nil, &got)

			if len(test.expErrIs) == 0 {
				assert.NoError(err)
			}
			for _, expErr := range test.expErrIs {
				assert.ErrorIs(err, expErr)
			}
			var upErr *fetch.UpstreamError
			assert.Equal(test.expUpErr, stderrors.As(err, &upErr))
			assert.Equal(test.expPayload, got)
			assert.Equal(0, cc.Held(), "the permit should always be released")
			mt.AssertExpectations(t)
		})
	}
}

func TestFetcherHoldsPermitDuringCall(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cc := permit.NewConcurrencyLimiter(permit.ConcurrencyConfig{Max: 2})
	var heldInside int
	mt := &mfetch.Transport{}
	mt.On("Active").Return(true)
	mt.On("Fetch", mock.Anything, "/x", mock.Anything).Return(func(context.Context, string, url.Values) []byte {
		heldInside = cc.Held()
		return []byte(`{}`)
	}, nil)

	f, err := fetch.New(fetch.Config{Transport: mt, Permit: cc})
	require.NoError(err)

	var out map[string]any
	assert.NoError(f.Get(context.TODO(), "/x", url.Values{"a": []string{"1"}}, &out))
	assert.Equal(1, heldInside)
	assert.Equal(0, cc.Held())
}

func TestFetcherTimeout(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cc := permit.NewConcurrencyLimiter(permit.ConcurrencyConfig{Max: 1})
	mt := &mfetch.Transport{}
	mt.On("Active").Return(true)
	mt.On("Fetch", mock.Anything, "/slow", mock.Anything).Return(func(ctx context.Context, _ string, _ url.Values) []byte {
		<-ctx.Done()
		return nil
	}, func(ctx context.Context, _ string, _ url.Values) error {
		return ctx.Err()
	})

	f, err := fetch.New(fetch.Config{Transport: mt, Permit: cc, Timeout: 20 * time.Millisecond})
	require.NoError(err)

	var out map[string]any
	err = f.Get(context.TODO(), "/slow", nil, &out)

	assert.ErrorIs(err, errors.ErrUpstreamFetch)
	assert.ErrorIs(err, errors.ErrTimeout)
	assert.Equal(0, cc.Held())
}

func TestFetcherCancelledWhileWaitingPermit(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cc := permit.NewConcurrencyLimiter(permit.ConcurrencyConfig{Max: 1})
	require.NoError(cc.Acquire(context.TODO()))
	defer cc.Release()

	mt := &mfetch.Transport{}
	mt.On("Active").Return(true)

	f, err := fetch.New(fetch.Config{Transport: mt, Permit: cc})
	require.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var out map[string]any
	err = f.Get(ctx, "/x", nil, &out)

	assert.ErrorIs(err, errors.ErrContextCanceled)
	assert.NotErrorIs(err, errors.ErrUpstreamFetch)
	mt.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestFetcherConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    fetch.Config
		expErr bool
	}{
		{
			name:   "A missing transport should be invalid.",
			cfg:    fetch.Config{Permit: permit.NewConcurrencyLimiter(permit.ConcurrencyConfig{})},
			expErr: true,
		},
		{
			name:   "A missing permit should be invalid.",
			cfg:    fetch.Config{Transport: &mfetch.Transport{}},
			expErr: true,
		},
		{
			name: "Transport and permit should be enough.",
			cfg: fetch.Config{
				Transport: &mfetch.Transport{},
				Permit:    permit.NewConcurrencyLimiter(permit.ConcurrencyConfig{}),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := fetch.New(test.cfg)

			if test.expErr {
				assert.ErrorIs(t, err, errors.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
