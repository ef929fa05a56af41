package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/dcastrolima/protocolo-municipal/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json; charset=UTF-8")
	body := []byte(`{"protocolos":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(bs)
	if !ok {
		t.Fatal("decodePayload failed")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != hdr.Get("Content-Type") {
		t.Errorf("header = %q", gotHdr.Get("Content-Type"))
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 8)} {
		if _, _, _, ok := decodePayload(bs); ok && len(bs) < 8 {
			t.Errorf("decodePayload(%v) accepted short input", bs)
		}
	}
	// Header length pointing past the buffer must be rejected.
	bad := make([]byte, 8)
	bad[7] = 0xFF
	if _, _, _, ok := decodePayload(bad); ok {
		t.Error("decodePayload accepted out-of-range header length")
	}
}

func TestPurgeCacheNilClient(t *testing.T) {
	// Must be a no-op, not a panic.
	PurgeCache(context.Background(), nil, "sgp-cache")
}

func TestDisabledCacheIsPassthrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	if mw == nil {
		t.Fatal("expected middleware func")
	}
}
