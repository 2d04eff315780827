package service

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/config"
	"co_attainment_backend/internal/model"
	"co_attainment_backend/internal/util"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetPath(t *testing.T) {
	cases := map[attainment.Key]string{
		attainment.KeyTest1: "/api/course/CS101/test1",
		attainment.KeyTest2: "/api/course/CS101/test2",
		attainment.KeyIP:    "/api/uploadIP",
		attainment.KeyIP1:   "/api/uploadIP1COAttainment",
		attainment.KeyIP2:   "/api/uploadIP2COAttainment",
	}
	for key, want := range cases {
		got, err := TargetPath(key, "CS101")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := TargetPath("lab", "CS101")
	assert.ErrorIs(t, err, util.ErrUnknownAssessment)
}

func TestSubmitSucceeds(t *testing.T) {
	var mu sync.Mutex
	var gotPath string
	var gotRows []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotRows)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"message":"saved","data":{"id":"rec-1"}}`))
	}))
	defer srv.Close()

	notes := newMemoryNotifications()
	client := NewSubmissionClient(config.BackendConfig{BaseURL: srv.URL + "/", CourseCode: "CS101"}, notes)

	n, err := client.Submit(context.Background(), "s1", "test1", computedRows(t, "test1"))
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPending, n.Status)
	assert.Equal(t, srv.URL+"/api/course/CS101/test1", n.Target)

	client.Wait()
	got, err := client.Status(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionSucceeded, got.Status)
	assert.Equal(t, "saved (rec-1)", got.Message)
	assert.NotNil(t, got.FinishedAt)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/api/course/CS101/test1", gotPath)
	assert.Len(t, gotRows, 2)
}

func TestSubmitRecordsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":500,"message":"Internal server error"}`))
	}))
	defer srv.Close()

	client := NewSubmissionClient(config.BackendConfig{BaseURL: srv.URL}, newMemoryNotifications())
	n, err := client.Submit(context.Background(), "s1", "ip1", computedRows(t, "ip1"))
	require.NoError(t, err)
	client.Wait()

	got, err := client.Status(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionFailed, got.Status)
	assert.Contains(t, got.Error, "backend responded 500: Internal server error")
}

func TestSubmitPreconditions(t *testing.T) {
	ctx := context.Background()
	client := NewSubmissionClient(config.BackendConfig{}, newMemoryNotifications())

	_, err := client.Submit(ctx, "s", "test1", computedRows(t, "test1"))
	assert.ErrorIs(t, err, util.ErrBackendDisabled)

	client.UpdateConfig(config.BackendConfig{BaseURL: "http://127.0.0.1:1"})
	_, err = client.Submit(ctx, "s", "test1", nil)
	assert.ErrorIs(t, err, util.ErrNoRows)

	_, err = client.Status(ctx, "nope")
	assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
}
