package rest

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterSPA serves the built frontend from staticDir. Unknown non-API paths
// fall back to index.html so client-side routes survive a reload.
func RegisterSPA(r *gin.Engine, staticDir string) {
	var (
		fsys       = http.Dir(staticDir)
		fileServer = http.FileServer(fsys)
		index      = filepath.Join(staticDir, "index.html")
	)

	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if staticDir == "" || p == RouteApi || strings.HasPrefix(p, RouteApi+"/") ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		if f, err := fsys.Open(path.Clean(p)); err == nil {
			st, serr := f.Stat()
			_ = f.Close()
			if serr == nil && !st.IsDir() {
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
		}
		c.File(index)
	})
}
