package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func TestSuccessWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Success(c, http.StatusCreated, map[string]string{"id": "x"}, "created", nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d", w.Code)
	}
	var got APIResponse[map[string]string]
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Version != "v1" || !got.Success || got.RequestID != "req-1" || got.Data["id"] != "x" {
		t.Errorf("envelope = %+v", got)
	}
}

func TestErrorAborts(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error[any](c, 0, "bad", map[string]string{"field": "is required"})

	if w.Code != http.StatusBadRequest || !c.IsAborted() {
		t.Fatalf("code = %d aborted = %v", w.Code, c.IsAborted())
	}
	var got APIResponse[any]
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Success || got.Message != "bad" || got.Version != Version {
		t.Errorf("envelope = %+v", got)
	}
}
