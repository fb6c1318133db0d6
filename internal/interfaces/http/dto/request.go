// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// 分页参数默认值与上限
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery 故事列表查询参数
type ListQuery struct {
	// Paginated 请求中带有 page 或 limit；否则返回全部
	Paginated bool
	Page      int
	Limit     int
}

// BindListQuery 从 Gin Context 解析列表参数
func BindListQuery(c *gin.Context) (ListQuery, error) {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")

	q := ListQuery{
		Paginated: hasPage || hasLimit,
		Page:      DefaultPage,
		Limit:     DefaultLimit,
	}
	if !q.Paginated {
		return q, nil
	}

	var err error
	if hasPage {
		if q.Page, err = parsePositiveInt("page", pageStr); err != nil {
			return ListQuery{}, err
		}
	}
	if hasLimit {
		if q.Limit, err = parsePositiveInt("limit", limitStr); err != nil {
			return ListQuery{}, err
		}
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q, nil
}

func parsePositiveInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < 1 {
		return 0, fmt.Errorf("%s must be >= 1", name)
	}
	return v, nil
}

// DecodeJSON 严格解析 JSON 请求体：拒绝未知字段与尾随内容
func DecodeJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return errors.New("request body is required")
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("request body is required")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: unexpected trailing data")
	}
	return nil
}
