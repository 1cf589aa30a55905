// Package server exposes the conversion endpoint: PDF upload in,
// password-gated flipbook artifact out.
package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/wudi/flipkit/artifact"
	"github.com/wudi/flipkit/observability"
	"github.com/wudi/flipkit/raster"
)

// MaxUploadBytes bounds the accepted document size.
const MaxUploadBytes = 64 << 20

type Server struct {
	echo *echo.Echo
	rast raster.Rasterizer
	log  observability.Logger
}

func New(rast raster.Rasterizer, log observability.Logger) *Server {
	if log == nil {
		log = observability.NopLogger{}
	}
	s := &Server{rast: rast, log: log}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.BodyLimit(strconv.Itoa(MaxUploadBytes)))
	e.Use(s.logRequests)

	e.GET("/healthz", s.handleHealth)
	e.POST("/convert", s.handleConvert)

	s.echo = e
	return s
}

func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) Start(addr string) error {
	s.log.Info("listening", observability.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}
		}
		s.log.Info("request",
			observability.String("id", c.Response().Header().Get(echo.HeaderXRequestID)),
			observability.String("method", c.Request().Method),
			observability.String("path", c.Request().URL.Path),
			observability.Int("status", status),
			observability.Float64(observability.MetricConvertTime, time.Since(start).Seconds()))
		return err
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConvert(c echo.Context) error {
	fh, err := c.FormFile("pdf")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing pdf upload")
	}
	switch fh.Header.Get("Content-Type") {
	case "application/pdf", "application/octet-stream", "":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "please upload a valid PDF file")
	}

	password := c.FormValue("password")
	if password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}
	title := c.FormValue("title")

	var dpi int
	if v := c.FormValue("dpi"); v != "" {
		dpi, err = strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "dpi must be an integer")
		}
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()
	doc, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}

	pages, err := s.rast.Rasterize(c.Request().Context(), doc, raster.Options{DPI: dpi})
	switch {
	case errors.Is(err, raster.ErrNoPages):
		return echo.NewHTTPError(http.StatusBadRequest, "no pages found in the PDF")
	case errors.Is(err, raster.ErrUnsupported):
		return echo.NewHTTPError(http.StatusBadRequest, "please upload a valid PDF file")
	case err != nil:
		s.log.Error("rasterize", observability.Error("err", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "PDF processing failed")
	}

	b := &artifact.Builder{
		Title:          title,
		PassphraseHash: artifact.HashPassphrase(password),
		Pages:          pages,
		Logger:         s.log,
	}
	out, err := b.Build(c.Request().Context())
	if err != nil {
		s.log.Error("build artifact", observability.Error("err", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "artifact generation failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+artifact.Filename(fh.Filename)+`"`)
	return c.Blob(http.StatusOK, "text/html; charset=utf-8", out)
}
