package repository

import (
	"context"
	"errors"
	"sync"

	httpEntity "github.com/fluenta/tutor-be/internal/delivery/http/entity"
	dbEntity "github.com/fluenta/tutor-be/internal/entity"
	"github.com/fluenta/tutor-be/internal/pkg/mapper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormSessionRepository struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGormSessionRepository returns the production session store. Writes to the
// same session id are serialized through a per-session lock, so concurrent
// turns on one session cannot interleave read-modify-write cycles.
func NewGormSessionRepository(db *gorm.DB) SessionRepository {
	return &gormSessionRepository{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *gormSessionRepository) sessionLock(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

func (r *gormSessionRepository) Save(ctx context.Context, session *httpEntity.Session) error {
	lock := r.sessionLock(session.ID)
	lock.Lock()
	defer lock.Unlock()

	row, err := mapper.ConvertToSessionRow(session)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(row).Error
}

func (r *gormSessionRepository) Load(ctx context.Context, id string) (*httpEntity.Session, error) {
	var row dbEntity.TutorSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return mapper.ConvertToSession(&row)
}

func (r *gormSessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&dbEntity.TutorSession{}).Error
}
