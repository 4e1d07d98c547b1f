package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arinovich/bookwidget/api"
	"github.com/arinovich/bookwidget/config"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Experiences *api.ExperienceHandler
	Checkout    *api.CheckoutHandler
	Embed       *api.EmbedHandler
}

// Run starts the HTTP server and blocks until context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, handlers Handlers) error {
	srv := newServer(cfg, handlers)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServer(cfg *config.Config, handlers Handlers) *http.Server {
	router := gin.Default()

	experiences := router.Group("/experiences")
	handlers.Experiences.Register(experiences)
	handlers.Embed.Register(experiences)

	sessions := router.Group("/sessions")
	handlers.Checkout.Register(sessions)

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs", func(c *gin.Context) {
			renderSwaggerUI(c.Writer, "/swagger/bookwidget.swagger.json")
		})
	}

	return &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}
}

func renderSwaggerUI(w http.ResponseWriter, jsonURL string) {
	html := fmt.Sprintf(`<!DOCTYPE html>
    <html>
    <head>
        <title>API Docs</title>
        <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@latest/swagger-ui.css">
    </head>
    <body>
        <div id="swagger-ui"></div>
        <script src="https://unpkg.com/swagger-ui-dist@latest/swagger-ui-bundle.js"></script>
        <script>
            window.onload = function() {
                window.ui = SwaggerUIBundle({
                    url: "%s",
                    dom_id: '#swagger-ui'
                });
            };
        </script>
    </body>
    </html>`, jsonURL)

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}
