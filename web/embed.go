package web

import (
	"bytes"
	_ "embed"
)

//go:embed livereload.js
var liveReloadJS []byte

// LiveReloadScript returns the <script> element the preview server appends
// to served decks. It reloads the page on every file-change event.
func LiveReloadScript() []byte {
	var buf bytes.Buffer
	buf.WriteString("<script>\n")
	buf.Write(liveReloadJS)
	buf.WriteString("</script>\n")
	return buf.Bytes()
}

// InjectLiveReload inserts the live-reload script before the closing </body>
// tag, or appends it when the document has none.
func InjectLiveReload(html []byte) []byte {
	script := LiveReloadScript()

	idx := lastIndexFold(html, []byte("</body>"))
	if idx < 0 {
		return append(bytes.Clone(html), script...)
	}

	out := make([]byte, 0, len(html)+len(script))
	out = append(out, html[:idx]...)
	out = append(out, script...)
	out = append(out, html[idx:]...)
	return out
}

func lastIndexFold(s, sep []byte) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		if bytes.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}
