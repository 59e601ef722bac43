package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrDataAccess marks every failure that came from the database. The
// underlying driver or gorm error stays reachable through errors.Is.
var ErrDataAccess = errors.New("data access")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

type Statement struct {
	Query string
	Args  []any
}

type Result struct {
	RowsAffected int64
}

func wrap(err error) error {
	if err == nil || errors.Is(err, ErrDataAccess) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDataAccess, err)
}

// IsNotFound reports whether err is a missing-row error from any lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Execute runs a parametrized query and scans the rows into dest.
func (r *GormRepo) Execute(ctx context.Context, dest any, query string, args ...any) error {
	return wrap(r.DB.WithContext(ctx).Raw(query, args...).Scan(dest).Error)
}

func (r *GormRepo) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res := r.DB.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return Result{}, wrap(res.Error)
	}
	return Result{RowsAffected: res.RowsAffected}, nil
}

// ExecuteTransaction runs the statements in order inside one transaction.
// The first failure rolls everything back and is returned.
func (r *GormRepo) ExecuteTransaction(ctx context.Context, stmts []Statement) ([]Result, error) {
	results := make([]Result, 0, len(stmts))
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, s := range stmts {
			res := tx.Exec(s.Query, s.Args...)
			if res.Error != nil {
				return fmt.Errorf("statement %d: %w", i, res.Error)
			}
			results = append(results, Result{RowsAffected: res.RowsAffected})
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}
	return results, nil
}

// Transaction runs fn with a repo bound to a single transaction. Returning
// an error from fn rolls back; the error is passed through untouched.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return wrap(err)
	}
	return wrap(sqlDB.PingContext(ctx))
}

func (r *GormRepo) create(ctx context.Context, v any) error {
	return wrap(r.DB.WithContext(ctx).Create(v).Error)
}

func (r *GormRepo) save(ctx context.Context, v any) error {
	return wrap(r.DB.WithContext(ctx).Save(v).Error)
}

func (r *GormRepo) first(ctx context.Context, dest any, id uint) error {
	return wrap(r.DB.WithContext(ctx).First(dest, id).Error)
}

func (r *GormRepo) deleteByID(ctx context.Context, model any, id uint) error {
	res := r.DB.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormRepo) count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error
	return n, wrap(err)
}

func errNotFound() error { return gorm.ErrRecordNotFound }
