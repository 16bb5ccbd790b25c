package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"
)

// MockDBTX memenuhi repository.DBTX untuk test service yang mengelola transaksi.
type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	callArgs := m.Called(append([]interface{}{ctx, query}, args...)...)
	if r := callArgs.Get(0); r != nil {
		return r.(sql.Result), callArgs.Error(1)
	}
	return nil, callArgs.Error(1)
}

func (m *MockDBTX) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	callArgs := m.Called(ctx, query)
	if s := callArgs.Get(0); s != nil {
		return s.(*sql.Stmt), callArgs.Error(1)
	}
	return nil, callArgs.Error(1)
}

func (m *MockDBTX) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	callArgs := m.Called(append([]interface{}{ctx, query}, args...)...)
	if r := callArgs.Get(0); r != nil {
		return r.(*sql.Rows), callArgs.Error(1)
	}
	return nil, callArgs.Error(1)
}

func (m *MockDBTX) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	callArgs := m.Called(append([]interface{}{ctx, query}, args...)...)
	if r := callArgs.Get(0); r != nil {
		return r.(*sql.Row)
	}
	return nil
}

func (m *MockDBTX) Commit() error {
	return m.Called().Error(0)
}

func (m *MockDBTX) Rollback() error {
	return m.Called().Error(0)
}
