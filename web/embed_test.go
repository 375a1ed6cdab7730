package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectLiveReload(t *testing.T) {
	html := []byte("<html><body><p>hi</p></BODY></html>")
	out := string(InjectLiveReload(html))

	assert.Contains(t, out, "new EventSource('/api/watch')")
	scriptAt := strings.Index(out, "<script>")
	bodyAt := strings.Index(out, "</BODY>")
	assert.Greater(t, scriptAt, 0)
	assert.Less(t, scriptAt, bodyAt, "script goes before </body>")
	assert.True(t, strings.HasSuffix(out, "</BODY></html>"))
}

func TestInjectLiveReload_NoBody(t *testing.T) {
	html := []byte("<p>fragment</p>")
	out := string(InjectLiveReload(html))

	assert.True(t, strings.HasPrefix(out, "<p>fragment</p><script>"))
	assert.Equal(t, "<p>fragment</p>", string(html), "input is not modified")
}
