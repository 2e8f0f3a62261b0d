package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"remoteimages/internal/core/port"
	"remoteimages/internal/core/service"
	"remoteimages/internal/metrics"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	imageRoute = "image"
	fileRoute  = "file"

	// statusClientClosed is recorded when the client goes away before the upstream answers.
	statusClientClosed = 499

	copyBufferSize = 32 << 10

	signatureParam = "s"
)

var forwardedHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Cache-Control",
	"ETag",
	"Last-Modified",
}

var copyBuffers = sync.Pool{
	New: func() any {
		b := make([]byte, copyBufferSize)
		return &b
	},
}

// flushWriter pushes every chunk to the client as soon as it arrives from upstream.
// It also hides io.ReaderFrom so copies go through the pooled buffer.
type flushWriter struct {
	w io.Writer
	f http.Flusher
}

func (fw flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if fw.f != nil {
		fw.f.Flush()
	}

	return n, err
}

// Proxy streams remote resources addressed by opaque path tokens.
type Proxy struct {
	builder port.URLBuilder
	client  *http.Client
}

func NewProxy(builder port.URLBuilder, client *http.Client) *Proxy {
	if client == nil {
		client = &http.Client{}
	}

	return &Proxy{builder: builder, client: client}
}

// Routes installs the proxy endpoints on mux. GET patterns also match HEAD,
// which is sent upstream as HEAD and answered without a body.
func (p *Proxy) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+service.LocalImagePath+"{token}", p.HandleImage)
	mux.HandleFunc("GET "+service.LocalFilePath+"{token}", p.HandleFile)
}

// HandleImage streams a CDN transformation of the decoded source, forwarding the query parameters.
func (p *Proxy) HandleImage(w http.ResponseWriter, r *http.Request) {
	source, err := service.DecodeURL(r.PathValue("token"))
	if err != nil {
		p.rejectToken(w, r, imageRoute, err)
		return
	}

	// The builder appends its own signature.
	params := r.URL.Query()
	params.Del(signatureParam)

	p.stream(w, r, imageRoute, source, p.builder.Build(source, params))
}

// HandleFile streams the decoded source unmodified.
func (p *Proxy) HandleFile(w http.ResponseWriter, r *http.Request) {
	source, err := service.DecodeURL(r.PathValue("token"))
	if err != nil {
		p.rejectToken(w, r, fileRoute, err)
		return
	}

	p.stream(w, r, fileRoute, source, source)
}

func (p *Proxy) rejectToken(w http.ResponseWriter, r *http.Request, route string, err error) {
	log.Debug().Err(err).Str("route", route).Str("path", r.URL.Path).Msg("rejecting proxy request")

	http.Error(w, "malformed token", http.StatusBadRequest)
	metrics.RecordProxyRequest(route, http.StatusBadRequest, 0, 0)
}

func (p *Proxy) stream(w http.ResponseWriter, r *http.Request, route, source, upstream string) {
	start := time.Now()

	l := log.With().
		Str("route", route).
		Str("source", source).
		Logger()

	l.Info().Msg("streaming")

	req, err := http.NewRequestWithContext(r.Context(), upstreamMethod(r), upstream, nil)
	if err != nil {
		l.Error().Err(err).Msg("error creating upstream request")
		http.Error(w, "invalid upstream url", http.StatusBadRequest)
		metrics.RecordProxyRequest(route, http.StatusBadRequest, 0, time.Since(start))
		return
	}

	if accept := r.Header.Get("Accept"); accept != "" {
		req.Header.Set("Accept", accept)
	}

	res, err := p.client.Do(req)
	if err != nil {
		if errors.Is(r.Context().Err(), context.Canceled) {
			l.Debug().Msg("client disconnected before upstream responded")
			metrics.RecordProxyRequest(route, statusClientClosed, 0, time.Since(start))
			return
		}

		l.Error().Err(err).Msg("upstream request failed")
		http.Error(w, "upstream request failed", http.StatusBadGateway)
		metrics.RecordProxyRequest(route, http.StatusBadGateway, 0, time.Since(start))
		return
	}
	defer res.Body.Close()

	for _, key := range forwardedHeaders {
		if v := res.Header.Get(key); v != "" {
			w.Header().Set(key, v)
		}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		l.Warn().Int("status", res.StatusCode).Msg("upstream returned error status")
	}

	w.WriteHeader(res.StatusCode)

	if r.Method == http.MethodHead {
		metrics.RecordProxyRequest(route, res.StatusCode, 0, time.Since(start))
		return
	}

	buf := copyBuffers.Get().(*[]byte)
	defer copyBuffers.Put(buf)

	flusher, _ := w.(http.Flusher)
	n, err := io.CopyBuffer(flushWriter{w: w, f: flusher}, res.Body, *buf)
	if err != nil {
		l.Warn().Err(err).Int64("bytes", n).Msg("stream interrupted")
	}

	metrics.RecordProxyRequest(route, res.StatusCode, n, time.Since(start))

	l.Debug().Int("status", res.StatusCode).Int64("bytes", n).Dur("duration", time.Since(start)).Msg("stream complete")
}

func upstreamMethod(r *http.Request) string {
	if r.Method == http.MethodHead {
		return http.MethodHead
	}

	return http.MethodGet
}
