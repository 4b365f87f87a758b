package httpmw

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	ulid "github.com/oklog/ulid/v2"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestIDKey = "request_id"
)

type IDGen interface{ NewULID(t time.Time) string }

// ulidGen: Monotonic エントロピーはスレッドセーフではないので mu で守る
type ulidGen struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGen() IDGen {
	return &ulidGen{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ulidGen) NewULID(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

// RequestID: クライアント指定の X-Request-ID があればそのまま使い，なければ ULID を払い出す
func RequestID(gen IDGen) gin.HandlerFunc {
	if gen == nil {
		gen = NewULIDGen()
	}
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = gen.NewULID(time.Now().UTC())
		}
		c.Set(CtxRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
