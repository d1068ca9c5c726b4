package server

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags the request with the incoming X-Request-ID or a fresh uuid
// and puts a logger carrying it into the request context.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Header(requestIDHeader, id)

		l := logger.FromContext(ctx.Request.Context()).With("request_id", id)
		ctx.Request = ctx.Request.WithContext(logger.WithContext(ctx.Request.Context(), l))
		ctx.Next()
	}
}

// AccessLog writes one line per request; 4xx log at warn, 5xx at error.
func AccessLog() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path

		ctx.Next()

		status := ctx.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []any{
			"method", ctx.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", ctx.ClientIP(),
		}
		if len(ctx.Errors) > 0 {
			last := ctx.Errors.Last().Err
			attrs = append(attrs, "error", last.Error(), "code", errors.CodeOf(last))
		}
		logger.FromContext(ctx.Request.Context()).Log(ctx.Request.Context(), level, "http request", attrs...)
	}
}

// Recovery turns a panic into a 500 with the usual error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(ctx *gin.Context, rec any) {
		logger.FromContext(ctx.Request.Context()).Error("panic recovered", "panic", rec)
		writeError(ctx, errors.ErrInternalServer)
	})
}

// RequireAuth accepts a bearer token, or the login cookie when the header is
// absent, and stores the principal in the request context.
func RequireAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := bearerToken(ctx)
		if raw == "" {
			writeError(ctx, errors.ErrUnauthorized)
			return
		}

		claims, err := tokens.ValidateToken(ctx.Request.Context(), raw)
		if err != nil {
			logger.FromContext(ctx.Request.Context()).Debug("token rejected", "error", err)
			writeError(ctx, errors.ErrUnauthorized)
			return
		}

		p := auth.Principal{UserID: claims.UserID, Email: claims.Subject, Role: claims.Role}
		reqCtx := auth.WithPrincipal(ctx.Request.Context(), p)
		reqCtx = logger.WithContext(reqCtx, logger.FromContext(reqCtx).With("principal", p.Email, "principal_id", p.UserID))
		ctx.Request = ctx.Request.WithContext(reqCtx)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if header != "" {
		return ""
	}
	cookie, err := ctx.Cookie(tokenCookie)
	if err != nil {
		return ""
	}
	return cookie
}

// OwnerChecker reports whether the account with id is the principal's own.
type OwnerChecker interface {
	IsOwner(ctx context.Context, principalID, id int64) (bool, error)
}

// RequireOwner lets the request through only when the :id user is the caller.
// It runs before any lookup of the target, so a missing user is also 403.
func RequireOwner(users OwnerChecker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, ok := auth.PrincipalFrom(ctx.Request.Context())
		if !ok {
			writeError(ctx, errors.ErrUnauthorized)
			return
		}

		id, err := pathID(ctx)
		if err != nil {
			writeError(ctx, err)
			return
		}

		owner, err := users.IsOwner(ctx.Request.Context(), p.UserID, id)
		if err != nil {
			writeError(ctx, err)
			return
		}
		if !owner {
			writeError(ctx, errors.ErrForbidden)
			return
		}
		ctx.Next()
	}
}

type gzipBody struct {
	io.Reader
	zr   *gzip.Reader
	body io.Closer
}

func (b *gzipBody) Close() error {
	return errors.Join(b.zr.Close(), b.body.Close())
}

// GzipRequestDecompress inflates bodies sent with Content-Encoding: gzip.
func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !strings.Contains(strings.ToLower(ctx.GetHeader("Content-Encoding")), "gzip") {
			ctx.Next()
			return
		}

		zr, err := gzip.NewReader(ctx.Request.Body)
		if err != nil {
			writeError(ctx, errors.ErrInvalidGzip)
			return
		}

		ctx.Request.Body = &gzipBody{Reader: zr, zr: zr, body: ctx.Request.Body}
		ctx.Request.Header.Del("Content-Encoding")
		ctx.Request.Header.Del("Content-Length")
		ctx.Request.ContentLength = -1
		ctx.Next()
	}
}

const minCompressSize = 1024

// gzipWriter buffers the response until it is known to be large and
// compressible enough, then switches to gzip for the rest of the body.
type gzipWriter struct {
	gin.ResponseWriter
	zw  *gzip.Writer
	buf bytes.Buffer
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	if w.zw != nil {
		n, err := w.zw.Write(data)
		if err != nil {
			return n, errors.ErrGzipCompressionFailed
		}
		return n, nil
	}

	w.buf.Write(data)
	if w.buf.Len() >= minCompressSize && w.compressible() {
		w.startGzip()
		if _, err := w.zw.Write(w.buf.Bytes()); err != nil {
			return 0, errors.ErrGzipCompressionFailed
		}
		w.buf.Reset()
	}
	return len(data), nil
}

func (w *gzipWriter) WriteString(s string) (int, error) { return w.Write([]byte(s)) }

func (w *gzipWriter) compressible() bool {
	switch w.ResponseWriter.Status() {
	case http.StatusNoContent, http.StatusNotModified, http.StatusPartialContent:
		return false
	}
	if w.Header().Get("Content-Encoding") != "" {
		return false
	}
	return isCompressibleContentType(w.Header().Get("Content-Type"))
}

func (w *gzipWriter) startGzip() {
	w.Header().Del("Content-Length")
	w.Header().Set("Content-Encoding", "gzip")
	w.zw = gzip.NewWriter(w.ResponseWriter)
}

// finish flushes whatever is left: the gzip trailer or the small plain body.
func (w *gzipWriter) finish() error {
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			return errors.ErrGzipCompressionFailed
		}
		return nil
	}
	if w.buf.Len() > 0 {
		_, err := w.ResponseWriter.Write(w.buf.Bytes())
		w.buf.Reset()
		return err
	}
	return nil
}

func (w *gzipWriter) Flush() {
	if w.zw != nil {
		_ = w.zw.Flush()
	} else if w.buf.Len() > 0 {
		_, _ = w.ResponseWriter.Write(w.buf.Bytes())
		w.buf.Reset()
	}
	w.ResponseWriter.Flush()
}

func (w *gzipWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

// GzipResponseCompress compresses JSON and text responses of at least 1 KiB
// for clients that accept gzip.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead ||
			!strings.Contains(strings.ToLower(ctx.GetHeader("Accept-Encoding")), "gzip") {
			ctx.Next()
			return
		}

		addVary(ctx.Writer.Header(), "Accept-Encoding")

		gw := &gzipWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = gw
		ctx.Next()

		if err := gw.finish(); err != nil {
			_ = ctx.Error(err)
		}
	}
}

func addVary(h http.Header, value string) {
	vary := h.Get("Vary")
	switch {
	case vary == "":
		h.Set("Vary", value)
	case !strings.Contains(vary, value):
		h.Set("Vary", vary+", "+value)
	}
}

var compressibleTypes = []string{
	"application/json",
	"application/xml",
	"application/javascript",
	"text/html",
	"text/css",
	"text/plain",
	"text/xml",
	"text/javascript",
}

func isCompressibleContentType(ct string) bool {
	lower := strings.ToLower(ct)
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
