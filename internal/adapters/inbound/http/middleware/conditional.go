package middleware

import (
	"net/http"
	"strings"
)

const (
	headerETag        = "ETag"
	headerIfNoneMatch = "If-None-Match"
)

// ConditionalGET buffers successful GET and HEAD responses, stamps them with
// an ETag and answers If-None-Match revalidations with 304 Not Modified.
// Handlers that set their own ETag are left untouched.
func ConditionalGET(generator *ETagGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)

				return
			}

			buffered := NewBufferedResponseWriter()

			next.ServeHTTP(buffered, r)

			if buffered.Status() >= http.StatusMultipleChoices || buffered.Header().Get(headerETag) != "" {
				_ = buffered.FlushTo(w)

				return
			}

			etag := formatETag(generator.Generate(buffered.Body()))
			buffered.Header().Set(headerETag, etag)

			if ifNoneMatch := r.Header.Get(headerIfNoneMatch); ifNoneMatch != "" && etagMatches(ifNoneMatch, etag) {
				copyHeader(w.Header(), buffered.Header())
				w.WriteHeader(http.StatusNotModified)

				return
			}

			_ = buffered.FlushTo(w)
		})
	}
}

func etagMatches(ifNoneMatch, quotedETag string) bool {
	if ifNoneMatch == "*" {
		return true
	}

	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == quotedETag || candidate == "W/"+quotedETag {
			return true
		}
	}

	return false
}

func formatETag(etag string) string {
	if strings.HasPrefix(etag, `"`) && strings.HasSuffix(etag, `"`) {
		return etag
	}

	return `"` + etag + `"`
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}
