package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrorKind tells callers which of the three store failure classes hit them.
type ErrorKind string

const (
	KindPermissionDenied ErrorKind = "permission-denied"
	KindUnavailable      ErrorKind = "unavailable"
	KindUnknown          ErrorKind = "unknown"
)

// Store operations, used to pick the user-facing message.
const (
	OpSaveLatest    = "save latest"
	OpAppendHistory = "append history"
	OpGetLatest     = "get latest"
	OpGetHistory    = "get history"
)

// StoreError wraps every failure coming out of the score store.
type StoreError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("score store: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown in the notification for this failure.
func (e *StoreError) UserMessage() string {
	read := e.Op == OpGetLatest || e.Op == OpGetHistory
	switch e.Kind {
	case KindPermissionDenied:
		if read {
			return "データの取得に失敗しました。データベースのアクセス権限設定が正しくない可能性があります。"
		}
		return "権限がありません。データベースのアクセス権限設定を確認してください。"
	case KindUnavailable:
		return "スコアストアが利用できません。ネットワーク接続を確認してください。"
	default:
		if read {
			return "データの取得に失敗しました: " + e.detail()
		}
		return "保存に失敗しました: " + e.detail()
	}
}

func (e *StoreError) detail() string {
	if e.Err == nil || e.Err.Error() == "" {
		return "不明なエラー"
	}
	return e.Err.Error()
}

// KindOf returns the kind of a store error, or KindUnknown for anything else.
func KindOf(err error) ErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) ErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501", strings.HasPrefix(pgErr.Code, "28"):
			return KindPermissionDenied
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "53"),
			pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03":
			return KindUnavailable
		}
		return KindUnknown
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
			return KindPermissionDenied
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			return KindUnavailable
		}
		return KindUnknown
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.As(err, &netErr):
		return KindUnavailable
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return KindUnavailable
	}
	return KindUnknown
}
