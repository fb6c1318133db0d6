// Package utils 提供通用工具函数
package utils

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator 单调递增的 ULID 生成器，并发安全
//
// 同一毫秒内生成的 ID 依然严格递增，因此按 ID 排序与按创建顺序一致。
type IDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewIDGenerator 创建 ID 生成器
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// NewIDGeneratorWithClock 创建使用指定时钟的 ID 生成器（测试用）
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	g := NewIDGenerator()
	g.now = now
	return g
}

// New 生成新的 ID
func (g *IDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

// IsValidID 校验字符串是否为合法的 ULID
func IsValidID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
