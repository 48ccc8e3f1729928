package response

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)
	return w
}

// Listing handlers normalize nil results to empty slices so clients always
// receive a JSON array; a nil slice would encode data as null instead.
func TestOKEmptySliceEncodesAsArray(t *testing.T) {
	w := record(func(c *gin.Context) { OK(c, []string{}) })
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestOKNilSliceEncodesAsNull(t *testing.T) {
	w := record(func(c *gin.Context) { OK(c, []string(nil)) })
	assert.JSONEq(t, `{"success":true,"data":null}`, w.Body.String())
}

func TestErrorHelpersCarryKind(t *testing.T) {
	w := record(func(c *gin.Context) { BadRequest(c, "bad input") })
	assert.Equal(t, 400, w.Code)
	assert.JSONEq(t, `{"success":false,"kind":"BAD_REQUEST","error":"bad input"}`, w.Body.String())

	w = record(func(c *gin.Context) { Forbidden(c, "nope") })
	assert.Equal(t, 403, w.Code)
	assert.JSONEq(t, `{"success":false,"kind":"FORBIDDEN","error":"nope"}`, w.Body.String())
}
