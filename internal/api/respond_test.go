package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"example.com/campusdrop/internal/service"
)

func performError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)

	respondError(c, err)
	return w
}

func TestRespondErrorConflictFields(t *testing.T) {
	w := performError(t, &service.Error{
		Kind:    service.KindConflict,
		Message: "Email is already registered",
		Field:   "email",
		Value:   "asha@university.edu",
	})

	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Email is already registered", body["message"])
	require.Equal(t, "email", body["field"])
	require.Equal(t, "asha@university.edu", body["value"])
}

// Wrapping must not strip the field/value details off the response
func TestRespondErrorWrappedConflict(t *testing.T) {
	wrapped := errors.Wrap(&service.Error{
		Kind:    service.KindConflict,
		Message: "University ID is already registered",
		Field:   "universityId",
		Value:   "UNI-42",
	}, "registering student")

	w := performError(t, wrapped)

	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "universityId", body["field"])
	require.Equal(t, "UNI-42", body["value"])
}

func TestRespondErrorInternalIsGeneric(t *testing.T) {
	w := performError(t, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Something went wrong!", body["message"])
}
