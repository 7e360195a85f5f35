package articles

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"autodialer/internal/ai"
)

func newTestRouter(s *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := Handlers{Service: s}
	r.GET("/v1/articles", h.List)
	r.GET("/v1/articles/slug/:slug", h.GetBySlug)
	r.GET("/v1/articles/:id", h.Get)
	r.POST("/v1/articles", h.Create)
	r.PATCH("/v1/articles/:id", h.Update)
	r.DELETE("/v1/articles/:id", h.Delete)
	r.POST("/v1/articles/generate", h.Generate)
	return r
}

func TestCreateAndGetArticle(t *testing.T) {
	s := newTestService(NewMemoryRepo(), &fakeGenerator{})
	r := newTestRouter(s)

	body, _ := json.Marshal(CreateInput{Title: "A Fine Title", Content: longContent("body")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/articles", bytes.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created Article
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/articles/"+created.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateArticle_ValidationError(t *testing.T) {
	s := newTestService(NewMemoryRepo(), &fakeGenerator{})
	r := newTestRouter(s)

	body, _ := json.Marshal(CreateInput{Title: "ok", Content: "short"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/articles", bytes.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetArticleBySlug(t *testing.T) {
	s := newTestService(NewMemoryRepo(), &fakeGenerator{})
	r := newTestRouter(s)

	body, _ := json.Marshal(CreateInput{Title: "A Fine Title", Content: longContent("body")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/articles", bytes.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/articles/slug/a-fine-title", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got Article
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Slug != "a-fine-title" {
		t.Fatalf("unexpected article: %+v", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/articles/slug/unknown", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetArticle_NotFound(t *testing.T) {
	s := newTestService(NewMemoryRepo(), &fakeGenerator{})
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/articles/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	gen := &fakeGenerator{
		content: map[string]string{"Title A": longContent("a")},
		fail:    map[string]bool{"Title B": true},
	}
	s := newTestService(NewMemoryRepo(), gen)
	r := newTestRouter(s)

	body, _ := json.Marshal(generateRequest{Titles: "Title A\nTitle B"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/articles/generate", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res GenerateResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Created != 1 || res.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", res)
	}
}

func TestGenerateEndpoint_EmptyTitles(t *testing.T) {
	s := newTestService(NewMemoryRepo(), &fakeGenerator{})
	r := newTestRouter(s)

	body, _ := json.Marshal(generateRequest{Titles: "  \n"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/articles/generate", bytes.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

var _ ai.Client = (*fakeGenerator)(nil)
