package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/coder/websocket"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/cull"
	"github.com/virtualboard/board/internal/geometry"
	"github.com/virtualboard/board/internal/session"
)

var errBadWindow = errors.New("window needs numeric left, top, right and bottom")

// Handler serves the board's HTTP surface: the seeded sample board and
// the websocket sessions.
type Handler struct {
	hub     *session.Hub
	sample  []board.Item
	origins []string
}

func NewHandler(hub *session.Hub, sample []board.Item, origins []string) *Handler {
	return &Handler{hub: hub, sample: sample, origins: origins}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.hub.Count(),
	})
}

type sampleResponse struct {
	Count int          `json:"count"`
	Items []board.Item `json:"items"`
}

// Sample returns the items every new session is seeded with. With
// left, top, right and bottom query parameters only the items
// overlapping that world window are returned.
func (h *Handler) Sample(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("left") && !q.Has("top") && !q.Has("right") && !q.Has("bottom") {
		writeJSON(w, http.StatusOK, sampleResponse{Count: len(h.sample), Items: h.sample})
		return
	}

	window, err := parseWindow(q.Get("left"), q.Get("top"), q.Get("right"), q.Get("bottom"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	items := cull.Collect(slices.Values(h.sample), window)
	if items == nil {
		items = []board.Item{}
	}
	writeJSON(w, http.StatusOK, sampleResponse{Count: len(items), Items: items})
}

func parseWindow(left, top, right, bottom string) (geometry.Rect, error) {
	var vals [4]float64
	for i, s := range []string{left, top, right, bottom} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return geometry.Rect{}, errBadWindow
		}
		vals[i] = v
	}
	return geometry.Rect{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}, nil
}

// Board upgrades the request to a websocket and runs one board session
// on it until the client goes away.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(h.origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	s, err := h.hub.Open(conn)
	if err != nil {
		slog.Error("open session", "error", err)
		conn.Close(websocket.StatusInternalError, "could not open board")
		return
	}

	h.hub.Serve(r.Context(), s)
}

// originPatterns strips the scheme from origins; websocket origin
// patterns match on host only.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if host, ok := strings.CutPrefix(o, "https://"); ok {
			o = host
		} else if host, ok := strings.CutPrefix(o, "http://"); ok {
			o = host
		}
		patterns = append(patterns, o)
	}
	return patterns
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
