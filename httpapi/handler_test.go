package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/usual2970/daywise/internal/planner"
	"github.com/usual2970/daywise/internal/priority"
	"github.com/usual2970/daywise/internal/task"
	"github.com/usual2970/daywise/repository/memory"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	mgr := task.New(store)
	eval := priority.New(store)
	plan := planner.New(eval, planner.Config{})

	h := NewHandler(mgr, eval, plan, zap.NewNop())
	s := NewServer(ServerConfig{Host: "127.0.0.1", Port: 0}, h, zap.NewNop())
	return s.engine
}

func TestHealthCheck(t *testing.T) {
	router := newTestServer(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateTaskRejectsMissingTitle(t *testing.T) {
	router := newTestServer(t)

	body, _ := json.Marshal(map[string]interface{}{"project": "home"})
	req, _ := http.NewRequest("POST", "/api/v1/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateThenGetTask(t *testing.T) {
	router := newTestServer(t)

	body, _ := json.Marshal(map[string]interface{}{"title": "water plants"})
	req, _ := http.NewRequest("POST", "/api/v1/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}

	getReq, _ := http.NewRequest("GET", "/api/v1/tasks/1", nil)
	getW := httptest.NewRecorder()
	router.ServeHTTP(getW, getReq)

	if getW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", getW.Code, getW.Body.String())
	}
}

func TestGetTaskNotFound(t *testing.T) {
	router := newTestServer(t)

	req, _ := http.NewRequest("GET", "/api/v1/tasks/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteTaskWithDependentConflicts(t *testing.T) {
	router := newTestServer(t)

	create := func(title string, deps []int64) int64 {
		payload := map[string]interface{}{"title": title}
		if deps != nil {
			payload["dependencies"] = deps
		}
		body, _ := json.Marshal(payload)
		req, _ := http.NewRequest("POST", "/api/v1/tasks", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		var resp struct {
			ID int64 `json:"id"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		return resp.ID
	}

	base := create("write report", nil)
	create("present report", []int64{base})

	req, _ := http.NewRequest("DELETE", "/api/v1/tasks/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPlanDayReturnsOK(t *testing.T) {
	router := newTestServer(t)

	req, _ := http.NewRequest("GET", "/api/v1/plan", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
