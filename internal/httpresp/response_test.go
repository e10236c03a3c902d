package httpresp

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNilSlicesSerializeEmpty(t *testing.T) {
	cases := []struct {
		name  string
		write func(c *gin.Context)
		want  string
	}{
		{"list", func(c *gin.Context) { List[int](c, nil) }, `{"data":[],"total":0}`},
		{"page", func(c *gin.Context) { Page[int](c, nil, 2, 50, 51) }, `{"data":[],"page":2,"limit":50,"total":51}`},
		{"cursor", func(c *gin.Context) { Cursor[int](c, nil, nil) }, `{"data":[],"next_before":null}`},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		tc.write(c)
		if got := w.Body.String(); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestCursorCarriesNext(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	next := uint(41)
	Cursor(c, []string{"a", "b"}, &next)

	if want := `{"data":["a","b"],"next_before":41}`; w.Body.String() != want {
		t.Fatalf("got %s", w.Body.String())
	}
}
