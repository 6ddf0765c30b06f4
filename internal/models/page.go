package models

import (
	"regexp"
	"strings"
)

// ListParams — номер страницы (с 1) и её размер.
type ListParams struct {
	Page     int
	PageSize int
}

// Skip — смещение для постраничной выборки.
func (p ListParams) Skip() int64 {
	if p.Page <= 1 {
		return 0
	}

	return int64(p.Page-1) * int64(p.PageSize)
}

// Page — страница результатов и общее число записей по тому же фильтру.
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

// TopicFilter — фильтр списка тем.
// Пустой CategoryID означает поиск по всем разделам.
type TopicFilter struct {
	CategoryID string
	Query      string
}

var objectIDRe = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidID проверяет формат идентификатора контента (ObjectID в hex).
func IsValidID(id string) bool {
	return objectIDRe.MatchString(strings.TrimSpace(id))
}
