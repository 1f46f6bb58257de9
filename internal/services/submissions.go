package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos"
	registrytypes "github.com/weighbuddy/weighbuddy-backend/internal/domain/registry"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

// SubmissionService serves the history views over archived weigh-ins.
type SubmissionService interface {
	Get(ctx context.Context, id uuid.UUID) (*registrytypes.Submission, error)
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*registrytypes.Submission, error)
	List(ctx context.Context, overloadedOnly bool, limit, offset int) ([]*registrytypes.Submission, error)
}

type submissionService struct {
	db             *gorm.DB
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
}

func NewSubmissionService(db *gorm.DB, log *logger.Logger, submissionRepo repos.SubmissionRepo) SubmissionService {
	serviceLog := log.With("service", "SubmissionService")
	return &submissionService{
		db:             db,
		log:            serviceLog,
		submissionRepo: submissionRepo,
	}
}

func (ss *submissionService) Get(ctx context.Context, id uuid.UUID) (*registrytypes.Submission, error) {
	return ss.submissionRepo.GetByID(ctx, nil, id)
}

func (ss *submissionService) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*registrytypes.Submission, error) {
	return ss.submissionRepo.GetBySessionID(ctx, nil, sessionID)
}

func (ss *submissionService) List(ctx context.Context, overloadedOnly bool, limit, offset int) ([]*registrytypes.Submission, error) {
	return ss.submissionRepo.List(ctx, nil, overloadedOnly, limit, offset)
}
