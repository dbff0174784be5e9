package webhook

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/resource"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(triggers chan model.ScriptIndex) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(triggers, nil).Register(r)
	return r
}

func TestWebhook_Success(t *testing.T) {
	// Law: GET .../webhook?name=N&namespace=NS causes exactly one
	// ResourceIndex<Script>{name=N, namespace=NS} on the queue iff 200.
	triggers := make(chan model.ScriptIndex, 1)
	r := newTestRouter(triggers)

	req := httptest.NewRequest(http.MethodGet, "/api/v1alpha/webhook?name=rule1&namespace=default", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	select {
	case idx := <-triggers:
		assert.Equal(t, resource.New[resource.Script]("default", "rule1"), idx)
	default:
		t.Fatal("expected one script trigger on the queue")
	}
}

func TestWebhook_QueueFull(t *testing.T) {
	triggers := make(chan model.ScriptIndex) // unbuffered: every send blocks
	r := newTestRouter(triggers)

	req := httptest.NewRequest(http.MethodGet, "/api/v1alpha/webhook?name=rule1&namespace=default", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhook_MissingParams(t *testing.T) {
	triggers := make(chan model.ScriptIndex, 1)
	r := newTestRouter(triggers)

	req := httptest.NewRequest(http.MethodGet, "/api/v1alpha/webhook?name=rule1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
