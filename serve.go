package pagesmith

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pagesmith/pagesmith/markdown"
)

// Serve builds the site, then serves the output directory with live
// rebuild on content/layout/static changes. Drafts stay out of the build
// output but are previewable under /drafts/.
func Serve(ctx context.Context, cfg SiteConfig) error {
	if _, err := Build(cfg, BuildOptions{}); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	cache := NewSiteCache(cfg, cfg.SiteCacheTTL)

	watcher, err := NewWatcher(
		[]string{cfg.ContentDir, cfg.LayoutsDir, cfg.StaticDir},
		300*time.Millisecond,
		func() {
			cache.Invalidate()
			if _, err := Build(cfg, BuildOptions{}); err != nil {
				log.Printf("rebuild: %v", err)
			}
		},
	)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()
	go watcher.Run(ctx)

	e := echo.New()
	e.HideBanner = true

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		he, ok := err.(*echo.HTTPError)
		if ok && he.Code == http.StatusNotFound {
			_ = RenderStatus(c, http.StatusNotFound, notFoundPage(cfg))
			return
		}
		c.Logger().Errorf("serve error: %v", err)
		e.DefaultHTTPErrorHandler(err, c)
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.Gzip())
	// Previews must never cache, or edits would not show up on reload.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", "no-store")
			return next(c)
		}
	})

	e.GET("/drafts/", func(c echo.Context) error { return handleDraftsIndex(c, cache) })
	e.GET("/drafts/:slug/", func(c echo.Context) error { return handleDraft(c, cache) })
	e.Static("/", cfg.OutputDir)

	errc := make(chan error, 1)
	go func() {
		if err := e.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

func handleDraftsIndex(c echo.Context, cache *SiteCache) error {
	site, _, err := cache.Get()
	if err != nil {
		return err
	}
	return Render(c, draftsIndexPage(site))
}

func handleDraft(c echo.Context, cache *SiteCache) error {
	site, layouts, err := cache.Get()
	if err != nil {
		return err
	}
	doc, err := site.Draft(c.Param("slug"))
	if err == ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	page, err := RenderDocument(site, layouts, doc)
	if err != nil {
		// A draft pointing at a not-yet-written layout still previews:
		// fall back to the bare markdown body.
		return Render(c, draftFallbackPage(doc))
	}
	return c.HTMLBlob(http.StatusOK, page)
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func draftsIndexPage(site *Site) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><title>Drafts — %s</title></head><body><h1>Drafts</h1><ul>",
			templ.EscapeString(site.Config.Name)); err != nil {
			return err
		}
		for _, d := range site.Drafts {
			if _, err := fmt.Fprintf(w, `<li><a href="/drafts/%s/">%s</a></li>`,
				templ.EscapeString(d.Slug()), templ.EscapeString(d.Title)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul></body></html>")
		return err
	})
}

func draftFallbackPage(doc Document) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><title>%s (draft)</title></head><body><article>",
			templ.EscapeString(doc.Title)); err != nil {
			return err
		}
		if err := markdown.Markdown(doc.Body).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</article></body></html>")
		return err
	})
}

func notFoundPage(cfg SiteConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!doctype html><html><head><title>404 — %s</title></head><body><h1>404</h1><p>Page not found.</p><p><a href="/">Back home</a></p></body></html>`,
			templ.EscapeString(cfg.Name))
		return err
	})
}
