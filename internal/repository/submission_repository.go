package repository

import (
	"context"

	"tnsystems-site/internal/domain/entity"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.Application) error
	// ListByJob returns applications newest first; jobID 0 lists all of them.
	ListByJob(ctx context.Context, jobID int64) ([]*entity.Application, error)
}

type ContactRepository interface {
	Create(ctx context.Context, sub *entity.ContactSubmission) error
	// List returns submissions newest first; formID 0 lists every form.
	List(ctx context.Context, formID int64, limit int) ([]*entity.ContactSubmission, error)
}
