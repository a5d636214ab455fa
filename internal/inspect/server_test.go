package inspect

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/binwire/internal/config"
	"github.com/danmuck/binwire/internal/device"
	"github.com/danmuck/binwire/internal/protocol"
	"github.com/danmuck/binwire/internal/protocol/codec"
	"github.com/danmuck/binwire/internal/retiming"
	"github.com/danmuck/binwire/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	profile := config.Profile{
		Name:   "bench",
		Clocks: []config.ClockConfig{{Name: "mcu", Width: 16}},
		Timestamped: []config.TimestampedEntry{
			{MessageID: "adc", Clock: "mcu", Body: "uint8"},
		},
	}
	stack, err := device.New(profile, retiming.ClockFunc(func() float64 { return 100 }))
	if err != nil {
		t.Fatalf("new stack: %v", err)
	}
	s := New(stack, ":0", nil)
	s.RegisterRoutes()
	return s
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	var out map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode body: %v (%s)", err, rr.Body.String())
		}
	}
	return rr, out
}

func TestHealth(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	rr, body := do(t, s, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK || body["status"] != "ok" || body["profile"] != "bench" {
		t.Fatalf("unexpected health response %d %#v", rr.Code, body)
	}
}

func TestDecodeRoute(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	rr, body := do(t, s, http.MethodPost, "/v1/decode", `{"id":"speed","type":"uint16","payload_hex":"0102"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	if body["codec"] != "uint16" || body["value"] != float64(513) {
		t.Fatalf("unexpected decode body %#v", body)
	}

	rr, body = do(t, s, http.MethodPost, "/v1/decode", `{"id":"adc","type":"uint8","payload_hex":"0a00ff01"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	value := body["value"].(map[string]any)
	samples := value["value"].([]any)
	if value["timestamp"] != float64(100) || len(samples) != 2 || samples[0] != float64(255) {
		t.Fatalf("unexpected timestamped body %#v", value)
	}

	rr, body = do(t, s, http.MethodGet, "/v1/clocks", "")
	clocks := body["clocks"].([]any)
	mcu := clocks[0].(map[string]any)
	if rr.Code != http.StatusOK || mcu["synced"] != true || mcu["offset"] != float64(90) {
		t.Fatalf("unexpected clocks body %#v", body)
	}
}

func TestDecodeRouteErrors(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"id":`, http.StatusBadRequest},
		{"unknown type", `{"id":"x","type":"int128","payload_hex":"00"}`, http.StatusBadRequest},
		{"bad hex", `{"id":"x","type":"int8","payload_hex":"zz"}`, http.StatusBadRequest},
		{"ragged array", `{"id":"x","type":"int16","payload_hex":"010203"}`, http.StatusUnprocessableEntity},
		{"no codec", `{"id":"x","type":"int64","payload_hex":"0000000000000000"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr, body := do(t, s, http.MethodPost, "/v1/decode", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d %#v", tc.status, rr.Code, body)
			}
			if _, ok := body["error"]; !ok {
				t.Fatalf("expected error field, got %#v", body)
			}
		})
	}
}

func TestEncodeRoute(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	rr, body := do(t, s, http.MethodPost, "/v1/encode", `{"id":"speed","type":"int16","value":[1,-1]}`)
	if rr.Code != http.StatusOK || body["payload_hex"] != "0100ffff" {
		t.Fatalf("unexpected encode response %d %#v", rr.Code, body)
	}

	rr, body = do(t, s, http.MethodPost, "/v1/encode", `{"id":"name","type":"char","value":"hi"}`)
	if rr.Code != http.StatusOK || body["payload_hex"] != "686900" {
		t.Fatalf("unexpected char encode response %d %#v", rr.Code, body)
	}

	rr, body = do(t, s, http.MethodPost, "/v1/encode", `{"id":"range","type":"offset_metadata","value":{"start":1,"end":258}}`)
	if rr.Code != http.StatusOK || body["payload_hex"] != "01000201" {
		t.Fatalf("unexpected offset encode response %d %#v", rr.Code, body)
	}

	rr, _ = do(t, s, http.MethodPost, "/v1/encode", `{"id":"speed","type":"int16","value":"fast"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for wrong value type, got %d", rr.Code)
	}

	rr, _ = do(t, s, http.MethodPost, "/v1/encode", `{"id":"adc","type":"uint8","value":1}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for decode-only codec, got %d", rr.Code)
	}
}

func TestCodecsAndReset(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)

	rr, body := do(t, s, http.MethodGet, "/v1/codecs", "")
	codecs := body["codecs"].([]any)
	first := codecs[0].(map[string]any)
	if rr.Code != http.StatusOK || first["name"] != "timestamped:adc" {
		t.Fatalf("expected timestamped codec first, got %#v", body)
	}

	rr, _ = do(t, s, http.MethodPost, "/v1/clocks/mcu/reset", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected reset ok, got %d", rr.Code)
	}
	rr, _ = do(t, s, http.MethodPost, "/v1/clocks/gpu/reset", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown clock, got %d", rr.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/decode", `{"id":"speed","type":"uint8","payload_hex":"01"}`)

	rr, _ := do(t, s, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "binwire_codec_operations_total") {
		t.Fatalf("expected codec metrics in exposition, got %d", rr.Code)
	}
}

func TestStatusFor(t *testing.T) {
	testlog.Start(t)
	match := &codec.MatchError{MessageID: "x", Type: protocol.TypeInt64, Direction: "decode"}
	if got := StatusFor(match); got != http.StatusNotFound {
		t.Fatalf("expected 404 for match error, got %d", got)
	}
	if got := StatusFor(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unknown error, got %d", got)
	}
}

func TestRenderableBytes(t *testing.T) {
	testlog.Start(t)
	got := Renderable(codec.Timestamped{Timestamp: 1, Value: []uint8{7, 8}})
	ts := got.(codec.Timestamped)
	if ints, ok := ts.Value.([]int); !ok || len(ints) != 2 || ints[1] != 8 {
		t.Fatalf("expected byte slice rendered as ints, got %#v", ts.Value)
	}
}
