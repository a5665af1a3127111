package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Defaults(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Zero(t, rw.BytesWritten())
	assert.False(t, rw.Wrote())
}

func TestWrap_Idempotent(t *testing.T) {
	rw := Wrap(httptest.NewRecorder())
	assert.Same(t, rw, Wrap(rw))
}

func TestWriteHeader(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			rec := httptest.NewRecorder()
			rw := Wrap(rec)

			rw.WriteHeader(status)
			rw.WriteHeader(http.StatusTeapot) // 2回目は無視

			assert.Equal(t, status, rw.StatusCode())
			assert.Equal(t, status, rec.Code)
			assert.True(t, rw.Wrote())
		})
	}
}

func TestWrite_CountsBytesAndImplies200(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	n, err := rw.Write([]byte("hello"))
	require.NoError(t, err)
	_, err = rw.Write([]byte(" world"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, 11, rw.BytesWritten())
	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Equal(t, "hello world", rec.Body.String())
}

func TestFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)

	rw.Flush()

	assert.True(t, rec.Flushed)
	assert.True(t, rw.Wrote())
}

func TestUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := Wrap(rec)
	assert.Same(t, rec, rw.Unwrap().(*httptest.ResponseRecorder))

	// ResponseController は Unwrap をたどって Flusher を見つける
	require.NoError(t, http.NewResponseController(rw).Flush())
	assert.True(t, rec.Flushed)
}
