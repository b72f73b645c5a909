package report

import (
	"errors"
	"fmt"
)

// ErrInvalidRange — некорректный период (from позже to либо пустые даты).
// Отклоняется до любого обращения к хранилищу.
var ErrInvalidRange = errors.New("invalid period: from is after to")

// NotFoundError — самой детали/машины не существует. Пустой журнал
// событий ошибкой не является.
type NotFoundError struct {
	Kind string // "part" | "vehicle"
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// DataSourceError — сбой хранилища/транспорта; вызывающий может повторить.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }
