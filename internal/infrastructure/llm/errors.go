package llm

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/ollama/ollama/api"

	"ai-story-api/internal/domain/service"
)

var (
	statusCodeRe    = regexp.MustCompile(`status code: (\d{3})`)
	modelNotFoundRe = regexp.MustCompile(`(?i)model .*not found`)
)

// classify 将客户端错误（4xx，408/429 除外）标记为不可重试
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isPermanentStatus(statusOf(err)) || modelNotFoundRe.MatchString(err.Error()) {
		return service.Permanent(err)
	}
	return err
}

func statusOf(err error) int {
	var se api.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	var sep *api.StatusError
	if errors.As(err, &sep) {
		return sep.StatusCode
	}
	if m := statusCodeRe.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code
	}
	return 0
}

func isPermanentStatus(code int) bool {
	if code < 400 || code >= 500 {
		return false
	}
	return code != http.StatusRequestTimeout && code != http.StatusTooManyRequests
}
