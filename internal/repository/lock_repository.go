package repository

import (
	"context"

	"gorm.io/gorm"
)

// LockRepository guards work across processes with postgres session advisory locks.
type LockRepository struct {
	db *gorm.DB
}

func NewLockRepository(db *gorm.DB) *LockRepository {
	return &LockRepository{db}
}

// TryWithLock runs fn while holding the advisory lock for name. It reports false without
// running fn when another session holds the lock.
func (r *LockRepository) TryWithLock(ctx context.Context, name string, fn func(ctx context.Context) error) (bool, error) {
	var acquired bool
	var runErr error

	// Lock and unlock must happen on the same connection.
	err := r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Raw("SELECT pg_try_advisory_lock(hashtext(?))", name).Row().Scan(&acquired); err != nil {
			return err
		}
		if !acquired {
			return nil
		}
		defer conn.WithContext(context.Background()).Exec("SELECT pg_advisory_unlock(hashtext(?))", name)

		runErr = fn(ctx)
		return nil
	})
	if err != nil {
		return false, wrap("advisory lock "+name, err)
	}
	return acquired, runErr
}
