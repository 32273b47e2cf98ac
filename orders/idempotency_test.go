package orders

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"verbena/models"
	"verbena/utils"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestIdempotencyRecordReplaySurvivesStorage(t *testing.T) {
	rec := models.IdempotencyRecord{
		Key:         "key-1",
		Method:      http.MethodPost,
		Path:        "/api/orders/checkout",
		UserID:      "u1",
		RequestHash: "deadbeef",
		Response: &models.StoredResponse{
			Status: http.StatusCreated,
			Body:   map[string]interface{}{"orderId": "ORD20250101000000123456"},
		},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	raw, err := bson.Marshal(rec)
	require.NoError(t, err)

	var got models.IdempotencyRecord
	require.NoError(t, bson.Unmarshal(raw, &got))
	require.NotNil(t, got.Response)
	require.Equal(t, http.StatusCreated, got.Response.Status,
		"stored status must come back as a usable HTTP code")

	// the replay path writes the recorded response as-is
	w := httptest.NewRecorder()
	utils.RespondWithJSON(w, got.Response.Status, got.Response.Body)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "ORD20250101000000123456")
}

func TestRequestHashDistinguishesPayloadAndUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", nil)

	base := computeRequestHash(req, []byte(`{"customerName":"A"}`), "u1")
	require.Equal(t, base, computeRequestHash(req, []byte(`{"customerName":"A"}`), "u1"))
	require.NotEqual(t, base, computeRequestHash(req, []byte(`{"customerName":"B"}`), "u1"))
	require.NotEqual(t, base, computeRequestHash(req, []byte(`{"customerName":"A"}`), "u2"))
}

func TestCaptureResponseWriterRecordsStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	crw := &captureResponseWriter{w: rec, statusCode: http.StatusOK}

	crw.WriteHeader(http.StatusCreated)
	crw.WriteHeader(http.StatusInternalServerError) // second call is ignored
	_, err := crw.Write([]byte(`{"ok":true}`))
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, crw.statusCode)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, strings.Contains(crw.buf.String(), `"ok":true`))
}
