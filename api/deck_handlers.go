package api

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"revealkit/deck"
	"revealkit/web"

	"github.com/gin-gonic/gin"
)

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	DeckPath string `json:"deckPath"`
}

// OutlineEntryResponse is one top-level position in GET /api/outline.
type OutlineEntryResponse struct {
	Token string   `json:"token"`
	IDs   []string `json:"ids"`
	Title string   `json:"title"`
}

// OutlineResponse is returned by GET /api/outline.
type OutlineResponse struct {
	Structure   string                 `json:"structure"`
	TotalSlides int                    `json:"totalSlides"`
	Entries     []OutlineEntryResponse `json:"entries"`
}

// HandleHealth reports which deck this server is serving.
// GET /api/health
func HandleHealth(deckPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", DeckPath: deckPath})
	}
}

// HandleOutline returns the structure of the deck as currently saved.
// GET /api/outline
func HandleOutline(deckPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := os.Open(deckPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read deck"})
			return
		}
		defer f.Close()

		entries, err := deck.Outline(f)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		tokens := deck.OutlineTokens(entries)
		resp := OutlineResponse{
			Structure:   deck.FormatStructure(tokens),
			TotalSlides: deck.TotalSlides(tokens),
			Entries:     make([]OutlineEntryResponse, 0, len(entries)),
		}
		for _, e := range entries {
			resp.Entries = append(resp.Entries, OutlineEntryResponse{
				Token: e.Token.String(),
				IDs:   e.IDs,
				Title: e.Title,
			})
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleDeckFile serves files from the deck directory. HTML documents get the
// live-reload script appended when liveReload is set.
func HandleDeckFile(deckDir string, liveReload bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusMethodNotAllowed)
			return
		}

		filePath, ok := resolveDeckFile(deckDir, c.Request.URL.Path)
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}

		info, err := os.Stat(filePath)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			c.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}

		ext := strings.ToLower(filepath.Ext(filePath))
		if !liveReload || (ext != ".html" && ext != ".htm") {
			c.File(filePath)
			return
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/html; charset=utf-8", web.InjectLiveReload(bytes.TrimRight(content, "\n")))
	}
}

// resolveDeckFile maps a URL path onto a file inside deckDir. Paths with ".."
// components or that would leave the directory are rejected.
func resolveDeckFile(deckDir, urlPath string) (string, bool) {
	if ContainsPathTraversal(urlPath) {
		return "", false
	}
	cleaned := path.Clean("/" + urlPath)
	if cleaned == "/" {
		return "", false
	}
	full := filepath.Join(deckDir, filepath.FromSlash(strings.TrimPrefix(cleaned, "/")))
	if !IsContainedIn(full, deckDir) {
		return "", false
	}
	return full, true
}
