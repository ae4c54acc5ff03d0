package store

import "gorm.io/gorm"

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// paginate counts the rows matched by query and loads one page of them.
// page is 1-based; out-of-range values are clamped.
func paginate[T any](query *gorm.DB, page, limit int) (Page[T], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	res := Page[T]{Page: page, Limit: limit}

	if err := query.Session(&gorm.Session{}).Model(new(T)).Count(&res.Total).Error; err != nil {
		return res, err
	}

	offset := (page - 1) * limit
	if err := query.Session(&gorm.Session{}).Offset(offset).Limit(limit).Find(&res.Items).Error; err != nil {
		return res, err
	}
	return res, nil
}
