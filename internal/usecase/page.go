package usecase

import "math"

// 一覧は1ページ4件
const PageSize = 4

// (page-1)*PageSize がintとDBのoffsetであふれない上限
const maxPage = math.MaxInt32 / PageSize

type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}

func newPage[T any](data []T, total int64, page int) Page[T] {
	if data == nil {
		data = []T{}
	}
	last := int((total + PageSize - 1) / PageSize)
	if last < 1 {
		last = 1
	}
	return Page[T]{
		Data:        data,
		CurrentPage: page,
		PerPage:     PageSize,
		Total:       total,
		LastPage:    last,
	}
}

// 全件スナップショット(キャッシュ)から1ページ切り出す
func paginate[T any](all []T, page int) Page[T] {
	page = normalizePage(page)
	//最終ページより先は空
	if page-1 > len(all)/PageSize {
		return newPage([]T{}, int64(len(all)), page)
	}
	start := (page - 1) * PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + PageSize
	if end > len(all) {
		end = len(all)
	}
	return newPage(all[start:end], int64(len(all)), page)
}
