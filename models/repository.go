package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	FindUser(ctx context.Context, id uint) (*User, error)
	FindOpenScheduling(ctx context.Context, id uint) (*Scheduling, error)
	// CloseScheduling marks an open scheduling closed, optionally granting a review,
	// and runs within inside the same transaction. An error from within rolls back.
	CloseScheduling(ctx context.Context, closure SchedulingClosure, within func(ctx context.Context) error) error
	FindLawyer(ctx context.Context, id uint) (*Lawyer, error)
	FindDivulgationWithMessages(ctx context.Context, id, lawyerID uint) (*Divulgation, error)
	SearchLawyers(ctx context.Context, filter *LawyerFilter) ([]Lawyer, error)
	Ping(ctx context.Context) error
	Close() error
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewRepository wraps an already opened connection.
func NewRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Migrate() error {
	err := r.db.AutoMigrate(
		&User{}, &Address{}, &Client{}, &Lawyer{}, &PracticeArea{}, &LawyerArea{},
		&Review{}, &MayReview{}, &Scheduling{}, &Divulgation{}, &Message{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindUser(ctx context.Context, id uint) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Preload("Lawyer").
		Preload("Client").
		First(&user, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *PostgresRepository) FindOpenScheduling(ctx context.Context, id uint) (*Scheduling, error) {
	var scheduling Scheduling
	err := r.db.WithContext(ctx).
		Preload("Client.User").
		Preload("Lawyer.User").
		Where("closed = ?", false).
		First(&scheduling, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &scheduling, nil
}

func (r *PostgresRepository) CloseScheduling(ctx context.Context, closure SchedulingClosure, within func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Scheduling{}).
			Where("id = ? AND closed = ?", closure.SchedulingID, false).
			Updates(map[string]interface{}{
				"closed":         true,
				"justification":  closure.Justification,
				"closure_reason": closure.Reason,
				"closed_at":      closure.ClosedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to close scheduling: %w", res.Error)
		}
		// closed concurrently since it was loaded
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if closure.MayReview != nil {
			if err := tx.Create(closure.MayReview).Error; err != nil {
				return fmt.Errorf("failed to grant review: %w", err)
			}
		}

		if within == nil {
			return nil
		}
		return within(ctx)
	})
}

func (r *PostgresRepository) FindLawyer(ctx context.Context, id uint) (*Lawyer, error) {
	var lawyer Lawyer
	if err := r.db.WithContext(ctx).First(&lawyer, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &lawyer, nil
}

func (r *PostgresRepository) FindDivulgationWithMessages(ctx context.Context, id, lawyerID uint) (*Divulgation, error) {
	var divulgation Divulgation
	err := r.db.WithContext(ctx).
		Preload("Client.Address").
		Preload("Client.User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Where("lawyer_id = ?", lawyerID).Order("sent_at DESC")
		}).
		Preload("Messages.Lawyer").
		First(&divulgation, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &divulgation, nil
}

func (r *PostgresRepository) SearchLawyers(ctx context.Context, filter *LawyerFilter) ([]Lawyer, error) {
	if filter == nil {
		filter = NewLawyerFilter()
	}

	var lawyers []Lawyer
	err := r.db.WithContext(ctx).
		Model(&Lawyer{}).
		Select("lawyers.*, (SELECT COUNT(*) FROM reviews WHERE reviews.lawyer_id = lawyers.id) AS review_count").
		Scopes(filter.Scopes()...).
		Preload("Address").
		Preload("User").
		Order("lawyers.id").
		Find(&lawyers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search lawyers: %w", err)
	}
	return lawyers, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
