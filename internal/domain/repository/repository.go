// Package repository 定义数据访问层接口
package repository

import (
	"fmt"
)

// Pagination 分页参数
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPagination 创建分页参数
func NewPagination(page, pageSize int) Pagination {
	return Pagination{Page: page, PageSize: pageSize}
}

// Validate 校验分页参数，页码与页大小均从 1 开始
func (p Pagination) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", p.Page)
	}
	if p.PageSize < 1 {
		return fmt.Errorf("limit must be >= 1, got %d", p.PageSize)
	}
	return nil
}

// Offset 计算偏移量
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit 获取限制数量
func (p Pagination) Limit() int {
	return p.PageSize
}

// Window 返回 [start, end) 在长度为 total 的有序集合中的切片边界
// 超出最后一页时 start == end
func (p Pagination) Window(total int) (start, end int) {
	if p.Beyond(int64(total)) {
		return total, total
	}
	start = p.Offset()
	end = total
	if total-start > p.PageSize {
		end = start + p.PageSize
	}
	return start, end
}

// Beyond 判断该页是否完全落在 total 条记录之后
func (p Pagination) Beyond(total int64) bool {
	if total <= 0 {
		return true
	}
	pages := (total + int64(p.PageSize) - 1) / int64(p.PageSize)
	return int64(p.Page-1) >= pages
}

// PagedResult 分页结果
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPagedResult 创建分页结果，Items 永不为 nil
func NewPagedResult[T any](items []T, total int64, pagination Pagination) *PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pagination.PageSize > 0 {
		totalPages = int(total) / pagination.PageSize
		if int(total)%pagination.PageSize > 0 {
			totalPages++
		}
	}
	return &PagedResult[T]{
		Items:      items,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages,
	}
}
