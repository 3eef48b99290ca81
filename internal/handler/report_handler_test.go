package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportPayload(email string) map[string]interface{} {
	return map[string]interface{}{
		"email": email,
		"questionnaireData": map[string]interface{}{
			"lineAnswers": []map[string]interface{}{
				{"bodyPart": "shoulders", "answer": "angular", "classification": "straight"},
				{"bodyPart": "jaw", "answer": "sharp", "classification": "straight"},
			},
			"scaleAnswers": []map[string]interface{}{
				{"category": "height", "answer": "small"},
				{"category": "hands", "answer": "small"},
				{"category": "face", "answer": "large"},
			},
			"bodyShape": "Hourglass",
		},
		"paymentData": map[string]interface{}{
			"orderId": "5O190127TN364715T", "payerId": "PAYER-1", "finalAmount": 15.99,
		},
	}
}

func TestReportHandler_ProcessReport(t *testing.T) {
	srv := newTestServer(t)

	w, body := srv.do(t, http.MethodPost, "/api/v1/reports", reportPayload("buyer@example.com"), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	recs, _ := data["recommendations"].(string)
	assert.True(t, strings.Contains(recs, "## Your Personalised Style Report"), recs)
	assert.Equal(t, "buyer@example.com", data["recipientEmail"])

	o, ok := srv.orders.orders["5O190127TN364715T"]
	require.True(t, ok)
	require.NotNil(t, o.PayerEmail())
	assert.Equal(t, "buyer@example.com", *o.PayerEmail())
}

func TestReportHandler_InvalidEmail(t *testing.T) {
	srv := newTestServer(t)

	w, body := srv.do(t, http.MethodPost, "/api/v1/reports", reportPayload("not-an-email"), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_EMAIL", body["code"])
	assert.Empty(t, srv.orders.orders)
}

